package fs

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

// note is a Markdown file split at its frontmatter.
type note struct {
	// root is the parsed header; nil when the file has none.
	root *yaml.Node
	body []byte
	eol  string
}

// splitNote separates the frontmatter block from the body. The block is
// recognised with the same rule the line locator uses: the first line is
// the marker and a later line equals it exactly.
func splitNote(data []byte) (note, error) {
	eol := "\n"
	if bytes.Contains(data, []byte("\r\n")) {
		eol = "\r\n"
	}

	lines := splitKeepEOL(data)
	if len(lines) == 0 || trimEOL(lines[0]) != header.Marker {
		return note{body: data, eol: eol}, nil
	}

	for i := 1; i < len(lines); i++ {
		if trimEOL(lines[i]) != header.Marker {
			continue
		}
		var text strings.Builder
		for _, l := range lines[1:i] {
			text.WriteString(l)
		}
		root, err := parseHeader(text.String())
		if err != nil {
			return note{}, err
		}
		var body bytes.Buffer
		for _, l := range lines[i+1:] {
			body.WriteString(l)
		}
		return note{root: root, body: body.Bytes(), eol: eol}, nil
	}

	// An unterminated block is body text.
	return note{body: data, eol: eol}, nil
}

func splitKeepEOL(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.SplitAfter(string(data), "\n")
}

func trimEOL(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}

func parseHeader(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Kind == 0 {
		// Empty header.
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse frontmatter: header is not a mapping")
	}
	return root, nil
}

// metadata decodes the header into a fresh tree.
func (n note) metadata() (core.Metadata, error) {
	m := core.Metadata{}
	if n.root == nil {
		return m, nil
	}
	if err := n.root.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	return m, nil
}

// bytes renders the note with its header.
func (n note) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if n.root != nil {
		var yml bytes.Buffer
		enc := yaml.NewEncoder(&yml)
		enc.SetIndent(2)
		if len(n.root.Content) > 0 {
			if err := enc.Encode(n.root); err != nil {
				return nil, err
			}
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}

		buf.WriteString(header.Marker + n.eol)
		text := yml.String()
		if n.eol != "\n" {
			text = strings.ReplaceAll(text, "\n", n.eol)
		}
		buf.WriteString(text)
		buf.WriteString(header.Marker + n.eol)
	}
	buf.Write(n.body)
	return buf.Bytes(), nil
}

// merge applies the differences between before and after to the mapping
// node. Keys whose value did not change keep their node, so their order,
// style and comments survive.
func merge(node *yaml.Node, before, after map[string]any) error {
	for i := 0; i < len(node.Content)-1; {
		key := node.Content[i].Value
		if _, kept := after[key]; !kept {
			node.Content = append(node.Content[:i], node.Content[i+2:]...)
			continue
		}
		i += 2
	}

	index := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		index[node.Content[i].Value] = i + 1
	}

	keys := make([]string, 0, len(after))
	for k := range after {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		newValue := after[key]
		pos, exists := index[key]
		if !exists {
			valueNode, err := encodeValue(newValue)
			if err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				valueNode,
			)
			continue
		}

		oldValue := before[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		current := node.Content[pos]
		oldMap, oldIsMap := asMapping(oldValue)
		newMap, newIsMap := asMapping(newValue)
		if oldIsMap && newIsMap && current.Kind == yaml.MappingNode {
			if err := merge(current, oldMap, newMap); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			continue
		}

		valueNode, err := encodeValue(newValue)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		valueNode.LineComment = current.LineComment
		node.Content[pos] = valueNode
	}
	return nil
}

// encodeValue builds the node of a changed value. Strings that read back
// as strings or timestamps are written plain, like hand-written headers.
func encodeValue(v any) (*yaml.Node, error) {
	if s, ok := v.(string); ok && plainSafe(s) {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: s}, nil
	}
	if m, ok := v.(core.Metadata); ok {
		v = map[string]any(m)
	}
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

func plainSafe(s string) bool {
	if s == "" || strings.ContainsAny(s, "\n#") || strings.TrimSpace(s) != s {
		return false
	}
	var probe struct {
		V any `yaml:"v"`
	}
	if err := yaml.Unmarshal([]byte("v: "+s), &probe); err != nil {
		return false
	}
	got, ok := probe.V.(string)
	return ok && got == s
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case core.Metadata:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}
