// Package core holds the domain types and ports of timethings.
//
// It has no knowledge of where documents live. Adapters (filesystem,
// editor shims, tests) implement the ports declared in ports.go.
package core

import "fmt"

// Metadata is a parsed frontmatter header: string keys mapped to scalars
// or nested mappings.
type Metadata map[string]any

// RepresentationKind selects how a document header is accessed.
type RepresentationKind int

const (
	// RepresentationLine addresses the header as raw, mutable text lines.
	RepresentationLine RepresentationKind = iota + 1
	// RepresentationStructured addresses the header as a parsed Metadata
	// tree through a HeaderProcessor transaction.
	RepresentationStructured
)

func (k RepresentationKind) String() string {
	switch k {
	case RepresentationLine:
		return "line"
	case RepresentationStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Representation is the document a tracker operation works on.
// Exactly one variant is populated, selected by Kind.
type Representation struct {
	Kind RepresentationKind
	// ID identifies the document. It keys cooldown state and, for the
	// structured variant, is handed to the HeaderProcessor.
	ID string
	// Lines is only set for RepresentationLine.
	Lines LineDocument
}

// LineBased builds the line variant.
func LineBased(id string, doc LineDocument) Representation {
	return Representation{Kind: RepresentationLine, ID: id, Lines: doc}
}

// Structured builds the structured variant.
func Structured(id string) Representation {
	return Representation{Kind: RepresentationStructured, ID: id}
}

// ActivityKind is the kind of raw host event.
type ActivityKind string

const (
	ActivityKeyUp         ActivityKind = "keyup"
	ActivityPointerDown   ActivityKind = "pointerdown"
	ActivityActiveChanged ActivityKind = "active-changed"
	ActivityFileModified  ActivityKind = "file-modified"
)

// Activity is a raw event delivered by the host.
type Activity struct {
	Kind ActivityKind `json:"type"`
	// ID is the affected document, relative to the vault.
	ID string `json:"path"`
	// Key is the released key name for keyup events (e.g. "a", "ArrowUp").
	Key  string `json:"key,omitempty"`
	Ctrl bool   `json:"ctrl,omitempty"`
	// Blurred reports that the editor did not have focus when the event fired.
	Blurred   bool  `json:"blurred,omitempty"`
	Timestamp int64 `json:"ts,omitempty"` // Unix milliseconds
}

// String implements lifecycle.Event.
func (a Activity) String() string {
	if a.Key != "" {
		return fmt.Sprintf("%s %s (%s)", a.Kind, a.ID, a.Key)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.ID)
}
