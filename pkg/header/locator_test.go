package header

import (
	"testing"

	"github.com/aretw0/timethings/pkg/core"
)

func TestHeaderEnd(t *testing.T) {
	tests := []struct {
		name  string
		lines core.Lines
		want  int
		ok    bool
	}{
		{"complete", core.Lines{"---", "a: 1", "---", "body"}, 2, true},
		{"empty header", core.Lines{"---", "---"}, 1, true},
		{"no opener", core.Lines{"a: 1", "---"}, NotFound, false},
		{"no closer", core.Lines{"---", "a: 1", "body"}, NotFound, false},
		{"closer with trailing space", core.Lines{"---", "a: 1", "--- "}, NotFound, false},
		{"empty document", core.Lines{}, NotFound, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := HeaderEnd(tc.lines)
			if got != tc.want || ok != tc.ok {
				t.Errorf("HeaderEnd() = (%d, %v), want (%d, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	doc := core.Lines{
		"---",                   // 0
		"title: Notes",          // 1
		"updated_at: yesterday", // 2
		"timethings:",           // 3
		"  updated_at: today",   // 4
		"  edited_seconds: 12",  // 5
		"other:",                // 6
		"\tedited_seconds: 3",   // 7
		"---",                   // 8
		"updated_at: body text", // 9
	}

	tests := []struct {
		path string
		want int
		ok   bool
	}{
		{"title", 1, true},
		{"updated_at", 2, true},
		{"timethings.updated_at", 4, true},
		{"timethings.edited_seconds", 5, true},
		{"other.edited_seconds", 7, true},
		{"edited_seconds", NotFound, false}, // only indented occurrences
		{"timethings.title", NotFound, false},
		{"missing", NotFound, false},
		{"timethings.missing", NotFound, false},
		{"", NotFound, false},
		{"timethings..updated_at", NotFound, false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := Locate(doc, tc.path)
			if got != tc.want || ok != tc.ok {
				t.Errorf("Locate(%q) = (%d, %v), want (%d, %v)", tc.path, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestLocate_NoClosingMarker(t *testing.T) {
	doc := core.Lines{"---", "updated_at: x", "timethings:", "  updated_at: y"}
	for _, path := range []string{"updated_at", "timethings", "timethings.updated_at"} {
		if i, ok := Locate(doc, path); ok {
			t.Errorf("Locate(%q) = %d, want not found", path, i)
		}
	}
}

func TestLocate_SingleSegmentSkipsIndentedNamesake(t *testing.T) {
	doc := core.Lines{
		"---",
		"parent:",
		"  b: nested",
		"b: top",
		"---",
	}
	got, ok := Locate(doc, "b")
	if !ok || got != 3 {
		t.Fatalf("Locate(b) = (%d, %v), want (3, true)", got, ok)
	}
}

func TestLocate_NestedRequiresIndentation(t *testing.T) {
	// "b" after "a" is a sibling, not a child.
	doc := core.Lines{
		"---",
		"a:",
		"b: 1",
		"  b: 2",
		"---",
	}
	if i, ok := Locate(doc, "a.b"); ok {
		t.Fatalf("Locate(a.b) = %d, want not found", i)
	}
}

func TestLocate_ChildWithoutParent(t *testing.T) {
	doc := core.Lines{
		"---",
		"  b: 1",
		"c:",
		"---",
	}
	if i, ok := Locate(doc, "a.b"); ok {
		t.Fatalf("Locate(a.b) = %d, want not found", i)
	}
}

func TestLocate_ChildMustFollowParent(t *testing.T) {
	doc := core.Lines{
		"---",
		"x:",
		"  b: before",
		"a:",
		"  b: after",
		"---",
	}
	got, ok := Locate(doc, "a.b")
	if !ok || got != 4 {
		t.Fatalf("Locate(a.b) = (%d, %v), want (4, true)", got, ok)
	}
}

func TestLocate_DuplicateKeysFirstWins(t *testing.T) {
	doc := core.Lines{
		"---",
		"updated_at: first",
		"updated_at: second",
		"a:",
		"  b: first",
		"  b: second",
		"---",
	}
	if got, _ := Locate(doc, "updated_at"); got != 1 {
		t.Errorf("Locate(updated_at) = %d, want 1", got)
	}
	if got, _ := Locate(doc, "a.b"); got != 4 {
		t.Errorf("Locate(a.b) = %d, want 4", got)
	}
}

func TestLocate_ThreeLevels(t *testing.T) {
	doc := core.Lines{
		"---",
		"a:",
		"  b:",
		"    c: deep",
		"---",
	}
	got, ok := Locate(doc, "a.b.c")
	if !ok || got != 3 {
		t.Fatalf("Locate(a.b.c) = (%d, %v), want (3, true)", got, ok)
	}
}

func TestLocate_IgnoresBody(t *testing.T) {
	doc := core.Lines{"---", "title: x", "---", "updated_at: not a header"}
	if i, ok := Locate(doc, "updated_at"); ok {
		t.Fatalf("Locate matched body line %d", i)
	}
}
