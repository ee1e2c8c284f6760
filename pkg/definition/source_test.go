package definition

import (
	"testing"
)

func TestSourceKinds(t *testing.T) {
	file := SourceFromFile("./forms/signup.json")
	if file.Kind() != SourceKindFile || file.Location() != "forms/signup.json" {
		t.Fatalf("file source: %v %q", file.Kind(), file.Location())
	}

	fsSrc := SourceFromFS("forms/signup.json")
	if fsSrc.Kind() != SourceKindFS || fsSrc.Location() != "forms/signup.json" {
		t.Fatalf("fs source: %v %q", fsSrc.Kind(), fsSrc.Location())
	}

	urlSrc := SourceFromURL("https://example.com/forms/signup.json")
	if urlSrc.Kind() != SourceKindURL {
		t.Fatalf("url source: %v", urlSrc.Kind())
	}

	bytesSrc := SourceFromBytes("", []byte(`{}`))
	if bytesSrc.Kind() != SourceKindBytes || bytesSrc.Location() != "inline" {
		t.Fatalf("bytes source: %v %q", bytesSrc.Kind(), bytesSrc.Location())
	}
	payload, ok := BytesPayload(bytesSrc)
	if !ok || string(payload) != "{}" {
		t.Fatalf("payload: %q %v", payload, ok)
	}
	if _, ok := BytesPayload(file); ok {
		t.Fatal("file source must not expose a payload")
	}
}

func TestSourceFromURL_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	SourceFromURL("not a url")
}

func TestDocument(t *testing.T) {
	raw := []byte(`{"id":"x"}`)
	doc, err := NewDocument(SourceFromBytes("x.json", raw), raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if doc.Location() != "x.json" {
		t.Fatalf("location: %q", doc.Location())
	}

	// Raw returns a defensive copy.
	copied := doc.Raw()
	copied[0] = '!'
	if string(doc.Raw()) != string(raw) {
		t.Fatal("raw payload must be isolated from callers")
	}

	if _, err := NewDocument(nil, raw); err == nil {
		t.Fatal("nil source must error")
	}
	if _, err := NewDocument(SourceFromBytes("x", raw), nil); err == nil {
		t.Fatal("empty payload must error")
	}
}

func TestDefinition_Helpers(t *testing.T) {
	var def Definition
	if !def.Empty() {
		t.Fatal("zero definition is empty")
	}
	if got := def.Fields(); len(got) != 0 {
		t.Fatalf("fields: %v", got)
	}
}
