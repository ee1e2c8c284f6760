package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeHiddenFields(t *testing.T) {
	base := map[string]string{"_csrf": "old", "tenant": "acme"}
	got := MergeHiddenFields(base,
		CSRFToken("_csrf", "fresh"),
		VersionField("_version", 7),
		Hidden("  ", "dropped"),
	)
	want := map[string]string{
		"_csrf":    "fresh",
		"tenant":   "acme",
		"_version": "7",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	// The base map is never mutated.
	if base["_csrf"] != "old" {
		t.Fatalf("base mutated: %v", base)
	}
}

func TestMergeHiddenFields_Empty(t *testing.T) {
	if got := MergeHiddenFields(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := MergeHiddenFields(nil, Hidden("", "x")); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSortedHiddenFields(t *testing.T) {
	got := SortedHiddenFields(map[string]string{
		"zeta":  "1",
		"alpha": "2",
		"  ":    "dropped",
	})
	want := []HiddenField{
		{Name: "alpha", Value: "2"},
		{Name: "zeta", Value: "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := SortedHiddenFields(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
