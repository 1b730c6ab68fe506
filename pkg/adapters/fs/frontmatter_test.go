package fs

import (
	"strings"
	"testing"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

func TestSplitNote(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader bool
		wantBody   string
	}{
		{"No Header", "# Title\n", false, "# Title\n"},
		{"Header", "---\na: 1\n---\nbody\n", true, "body\n"},
		{"Empty Header", "---\n---\nbody", true, "body"},
		{"Unterminated Header", "---\na: 1\nbody\n", false, "---\na: 1\nbody\n"},
		{"Marker With Trailing Space", "--- \na: 1\n---\n", false, "--- \na: 1\n---\n"},
		{"CRLF", "---\r\na: 1\r\n---\r\nbody\r\n", true, "body\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := splitNote([]byte(tt.input))
			if err != nil {
				t.Fatalf("splitNote failed: %v", err)
			}
			if (n.root != nil) != tt.wantHeader {
				t.Errorf("header parsed = %v, want %v", n.root != nil, tt.wantHeader)
			}
			if string(n.body) != tt.wantBody {
				t.Errorf("body = %q, want %q", n.body, tt.wantBody)
			}
		})
	}
}

func TestSplitNote_RejectsNonMapping(t *testing.T) {
	if _, err := splitNote([]byte("---\n- a\n- b\n---\n")); err == nil {
		t.Fatal("Expected error for a list header")
	}
}

// edit runs fn over the header of input and renders the result.
func edit(t *testing.T, input string, fn func(core.Metadata)) string {
	t.Helper()

	n, err := splitNote([]byte(input))
	if err != nil {
		t.Fatalf("splitNote failed: %v", err)
	}
	before, _ := n.metadata()
	after, _ := n.metadata()
	fn(after)

	if n.root == nil {
		t.Fatal("test input has no header")
	}
	if err := merge(n.root, before, after); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	out, err := n.bytes()
	if err != nil {
		t.Fatalf("bytes failed: %v", err)
	}
	return string(out)
}

func TestMerge_PreservesUntouchedKeys(t *testing.T) {
	input := "---\n" +
		"title: Plan # working title\n" +
		"tags: [a, b]\n" +
		"edited_seconds: 10\n" +
		"---\n" +
		"body\n"

	got := edit(t, input, func(m core.Metadata) {
		m["edited_seconds"] = 20
	})

	want := "---\n" +
		"title: Plan # working title\n" +
		"tags: [a, b]\n" +
		"edited_seconds: 20\n" +
		"---\n" +
		"body\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMerge_AppendsNewKeys(t *testing.T) {
	got := edit(t, "---\ntitle: Plan\n---\n", func(m core.Metadata) {
		header.Set(m, "stats.edited", 10)
	})

	want := "---\ntitle: Plan\nstats:\n  edited: 10\n---\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMerge_NestedChangeKeepsSiblings(t *testing.T) {
	input := "---\nstats:\n  words: 300\n  edited: 10\n---\n"

	got := edit(t, input, func(m core.Metadata) {
		header.Set(m, "stats.edited", 20)
	})

	want := "---\nstats:\n  words: 300\n  edited: 20\n---\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMerge_TimestampWrittenPlain(t *testing.T) {
	got := edit(t, "---\nupdated_at: 2024-01-01T00:00:00.000Z\n---\n", func(m core.Metadata) {
		m["updated_at"] = "2024-06-01T12:00:00.000+00:00"
	})

	if !strings.Contains(got, "updated_at: 2024-06-01T12:00:00.000+00:00\n") {
		t.Errorf("Expected plain timestamp, got:\n%s", got)
	}
}

func TestMerge_AmbiguousStringsQuoted(t *testing.T) {
	got := edit(t, "---\na: x\n---\n", func(m core.Metadata) {
		m["a"] = "true"
	})

	n, err := splitNote([]byte(got))
	if err != nil {
		t.Fatalf("splitNote failed: %v", err)
	}
	m, _ := n.metadata()
	if m["a"] != "true" {
		t.Errorf("Expected string \"true\" to survive, got %#v in:\n%s", m["a"], got)
	}
}

func TestMerge_RemovesDeletedKeys(t *testing.T) {
	got := edit(t, "---\na: 1\nb: 2\n---\n", func(m core.Metadata) {
		delete(m, "a")
	})

	if got != "---\nb: 2\n---\n" {
		t.Errorf("got:\n%s", got)
	}
}

func TestNoteBytes_KeepsCRLF(t *testing.T) {
	got := edit(t, "---\r\na: 1\r\n---\r\nbody\r\n", func(m core.Metadata) {
		m["a"] = 2
	})

	if got != "---\r\na: 2\r\n---\r\nbody\r\n" {
		t.Errorf("got %q", got)
	}
}

func TestPlainSafe(t *testing.T) {
	tests := map[string]bool{
		"hello":                         true,
		"2024-06-01T12:00:00.000+00:00": true,
		"12:00 PM":                      true,
		"a: b":                          false,
		"true":                          false,
		"42":                            false,
		"":                              false,
		"a # b":                         false,
		" padded":                       false,
	}
	for input, want := range tests {
		if got := plainSafe(input); got != want {
			t.Errorf("plainSafe(%q) = %v, want %v", input, got, want)
		}
	}
}
