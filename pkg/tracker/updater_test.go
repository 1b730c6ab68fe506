package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/timethings/pkg/core"
)

const isoFormat = "YYYY-MM-DD[T]HH:mm:ss.SSSZ"

func TestUpdater_TouchLines(t *testing.T) {
	clock := newFakeClock()
	u := NewUpdater(clock, nil)
	doc := core.Lines{"---", "updated_at: 2024-01-01T00:00:00.000Z", "---"}

	if err := u.TouchLines(doc, "updated_at", isoFormat); err != nil {
		t.Fatalf("TouchLines() error = %v", err)
	}
	if doc[1] != "updated_at: 2024-06-01T12:00:00.000+00:00" {
		t.Fatalf("line = %q", doc[1])
	}
}

func TestUpdater_TouchLinesSkips(t *testing.T) {
	tests := []struct {
		name string
		doc  core.Lines
		err  error
	}{
		{"absent", core.Lines{"---", "title: x", "---"}, core.ErrFieldNotFound},
		{"no header", core.Lines{"updated_at: 2024-01-01T00:00:00.000Z"}, core.ErrNoHeader},
		{"unclosed header", core.Lines{"---", "updated_at: 2024-01-01T00:00:00.000Z"}, core.ErrNoHeader},
		{"other format", core.Lines{"---", "updated_at: 1 Jan 2024", "---"}, core.ErrFormatMismatch},
		{"empty", core.Lines{"---", "updated_at:", "---"}, core.ErrFormatMismatch},
	}
	u := NewUpdater(newFakeClock(), nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := append(core.Lines(nil), tc.doc...)
			err := u.TouchLines(tc.doc, "updated_at", isoFormat)
			if !errors.Is(err, tc.err) {
				t.Fatalf("TouchLines() error = %v, want %v", err, tc.err)
			}
			if tc.doc.String() != before.String() {
				t.Fatalf("document changed: %q", tc.doc)
			}
		})
	}
}

func TestUpdater_TouchTree(t *testing.T) {
	u := NewUpdater(newFakeClock(), nil)

	tree := core.Metadata{"updated_at": "2024-01-01T00:00:00.000Z"}
	if err := u.TouchTree(tree, "updated_at", isoFormat); err != nil {
		t.Fatalf("TouchTree() error = %v", err)
	}
	if tree["updated_at"] != "2024-06-01T12:00:00.000+00:00" {
		t.Fatalf("updated_at = %v", tree["updated_at"])
	}

	empty := core.Metadata{}
	if err := u.TouchTree(empty, "updated_at", isoFormat); !errors.Is(err, core.ErrFieldNotFound) {
		t.Fatalf("TouchTree() on empty tree error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("TouchTree() created a field: %v", empty)
	}
}

func TestUpdater_RefreshTreeInterval(t *testing.T) {
	clock := newFakeClock()
	u := NewUpdater(clock, nil)
	stored := "2024-06-01T11:55:00.000Z"
	interval := 5 * time.Minute

	// now is 12:00, the stored value plus interval is exactly 12:00.
	clock.Advance(-time.Second)
	tree := core.Metadata{"updated_at": stored}
	if err := u.RefreshTree(tree, "updated_at", isoFormat, interval); !errors.Is(err, ErrFresh) {
		t.Fatalf("RefreshTree() just before the interval error = %v, want ErrFresh", err)
	}
	if tree["updated_at"] != stored {
		t.Fatalf("fresh value rewritten: %v", tree["updated_at"])
	}

	clock.Advance(2 * time.Second)
	if err := u.RefreshTree(tree, "updated_at", isoFormat, interval); err != nil {
		t.Fatalf("RefreshTree() after the interval error = %v", err)
	}
	if tree["updated_at"] != "2024-06-01T12:00:01.000+00:00" {
		t.Fatalf("updated_at = %v", tree["updated_at"])
	}
}

func TestUpdater_RefreshTreeStaleValues(t *testing.T) {
	u := NewUpdater(newFakeClock(), nil)
	for _, tree := range []core.Metadata{
		{},
		{"updated_at": "garbage"},
		{"updated_at": 12},
		{"updated_at": nil},
	} {
		if err := u.RefreshTree(tree, "updated_at", isoFormat, time.Minute); err != nil {
			t.Errorf("RefreshTree(%v) error = %v", tree, err)
		}
		if tree["updated_at"] != "2024-06-01T12:00:00.000+00:00" {
			t.Errorf("updated_at = %v", tree["updated_at"])
		}
	}
}

func TestUpdater_RefreshTreeAcceptsTime(t *testing.T) {
	clock := newFakeClock()
	u := NewUpdater(clock, nil)
	tree := core.Metadata{"updated_at": clock.Now().Add(-30 * time.Second)}

	if err := u.RefreshTree(tree, "updated_at", isoFormat, time.Minute); !errors.Is(err, ErrFresh) {
		t.Fatalf("RefreshTree() error = %v, want ErrFresh", err)
	}
}

func TestUpdater_RefreshHostError(t *testing.T) {
	headers := newMemHeaders()
	headers.failOn = "x.md"
	u := NewUpdater(newFakeClock(), nil)

	err := u.Refresh(context.Background(), headers, "x.md", "updated_at", isoFormat, time.Minute)
	if !errors.Is(err, errHost) {
		t.Fatalf("Refresh() error = %v, want host error", err)
	}
}
