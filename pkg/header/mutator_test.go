package header

import (
	"slices"
	"testing"

	"github.com/aretw0/timethings/pkg/core"
)

func TestSetValue_Scenario(t *testing.T) {
	doc := core.Lines{"---", "updated_at: 2024-01-01T00:00:00.000Z", "---"}

	if !SetValue(doc, "updated_at", "2024-06-01T00:00:00.000Z") {
		t.Fatal("SetValue reported no write")
	}
	if doc[1] != "updated_at: 2024-06-01T00:00:00.000Z" {
		t.Errorf("line 1 = %q", doc[1])
	}
}

func TestSetValue_OnlyTargetLineChanges(t *testing.T) {
	doc := core.Lines{
		"---",
		"title: Keep: colons",
		"timethings:",
		"    updated_at:   old value  ",
		"updated_at: top",
		"---",
		"body: untouched",
	}
	before := slices.Clone(doc)

	SetValue(doc, "timethings.updated_at", "new")

	for i := range doc {
		if i == 3 {
			continue
		}
		if doc[i] != before[i] {
			t.Errorf("line %d changed: %q -> %q", i, before[i], doc[i])
		}
	}
	if doc[3] != "    updated_at: new" {
		t.Errorf("line 3 = %q, want key and indentation kept", doc[3])
	}
}

func TestSetValue_Idempotent(t *testing.T) {
	doc := core.Lines{"---", "edited_seconds:12", "---"}

	SetValue(doc, "edited_seconds", "13")
	first := slices.Clone(doc)
	SetValue(doc, "edited_seconds", "13")

	if !slices.Equal(first, doc) {
		t.Errorf("second SetValue changed the document: %q -> %q", first, doc)
	}
}

func TestSetValue_NotFoundIsNoop(t *testing.T) {
	docs := []core.Lines{
		{"---", "title: x", "---"},
		{"title: x", "updated_at: y"},
		{"---", "updated_at: y"},
	}
	for _, doc := range docs {
		before := slices.Clone(doc)
		if SetValue(doc, "updated_at.inner", "v") {
			t.Errorf("SetValue wrote into %q", before)
		}
		if !slices.Equal(before, doc) {
			t.Errorf("document changed: %q -> %q", before, doc)
		}
	}
}

func TestRawValue(t *testing.T) {
	doc := core.Lines{
		"---",
		"updated_at: 2024-01-01T10:00:00.000+02:00",
		"empty:",
		"a:",
		"  b:   spaced  ",
		"---",
	}

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"updated_at", "2024-01-01T10:00:00.000+02:00", true},
		{"empty", "", true},
		{"a.b", "spaced", true},
		{"missing", "", false},
	}
	for _, tc := range tests {
		got, ok := RawValue(doc, tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("RawValue(%q) = (%q, %v), want (%q, %v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}
