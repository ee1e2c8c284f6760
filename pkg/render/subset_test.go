package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
)

func namedNodes(names ...string) []form.Node {
	nodes := make([]form.Node, len(names))
	for i, name := range names {
		nodes[i] = form.Node{Name: name}
	}
	return nodes
}

func nodeNames(nodes []form.Node) []string {
	out := make([]string, len(nodes))
	for i, node := range nodes {
		out[i] = node.Name
	}
	return out
}

func TestSubsetNodes(t *testing.T) {
	nodes := namedNodes("email", "name", "age", "bio")

	got, err := SubsetNodes(nodes, []string{"age", "email"})
	if err != nil {
		t.Fatalf("subset: %v", err)
	}
	// Dispatch order wins over include order.
	if diff := cmp.Diff([]string{"email", "age"}, nodeNames(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := SubsetNodes(nodes, []string{"email", "typo"}); err == nil {
		t.Fatal("unknown name must error")
	} else if !strings.Contains(err.Error(), "typo") {
		t.Fatalf("error must name the missing field: %v", err)
	}

	got, err = SubsetNodes(nodes, nil)
	if err != nil || len(got) != len(nodes) {
		t.Fatalf("empty include must return everything: %v %v", got, err)
	}
}

func TestExcludeNodes(t *testing.T) {
	nodes := namedNodes("email", "name", "age")
	got := ExcludeNodes(nodes, []string{"name", "not-there"})
	if diff := cmp.Diff([]string{"email", "age"}, nodeNames(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := ExcludeNodes(nodes, nil); len(got) != 3 {
		t.Fatalf("empty exclude must return everything, got %v", got)
	}
}
