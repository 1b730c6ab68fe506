package header

import (
	"reflect"
	"testing"

	"github.com/aretw0/timethings/pkg/core"
)

func TestSet_CreatesIntermediates(t *testing.T) {
	tree := core.Metadata{}
	Set(tree, "a.b.c", "x")

	want := core.Metadata{
		"a": map[string]any{
			"b": map[string]any{"c": "x"},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree = %#v, want %#v", tree, want)
	}
}

func TestSet_ReplacesScalarIntermediate(t *testing.T) {
	tree := core.Metadata{"a": "scalar", "keep": 1}
	Set(tree, "a.b", 5)

	want := core.Metadata{"a": map[string]any{"b": 5}, "keep": 1}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree = %#v, want %#v", tree, want)
	}
}

func TestSet_KeepsSiblings(t *testing.T) {
	tree := core.Metadata{
		"timethings": map[string]any{"updated_at": "old", "other": true},
	}
	Set(tree, "timethings.updated_at", "new")

	inner := tree["timethings"].(map[string]any)
	if inner["updated_at"] != "new" || inner["other"] != true {
		t.Fatalf("inner = %#v", inner)
	}
}

func TestGet(t *testing.T) {
	tree := core.Metadata{
		"updated_at": "2024",
		"nil":        nil,
		"nested":     map[string]any{"edited_seconds": 42},
		"scalar":     "text",
	}

	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"updated_at", "2024", true},
		{"nil", nil, true},
		{"nested.edited_seconds", 42, true},
		{"nested.missing", nil, false},
		{"scalar.child", nil, false},
		{"missing", nil, false},
		{"", nil, false},
	}
	for _, tc := range tests {
		got, ok := Get(tree, tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Get(%q) = (%v, %v), want (%v, %v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGet_NilTree(t *testing.T) {
	if _, ok := Get(nil, "a"); ok {
		t.Fatal("Get on nil tree reported a value")
	}
}
