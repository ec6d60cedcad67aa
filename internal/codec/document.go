// Package codec converts packing documents to and from their serialized forms:
// the base64 URL state and the flat local-storage array.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/starford/packapp/internal/apperr"
	"github.com/starford/packapp/internal/packing"
)

// DefaultListName names documents whose payload carries no name, such as the
// bare arrays written by older links.
const DefaultListName = "New Packing List"

// MaxStateLen bounds the encoded state accepted by Decode.
const MaxStateLen = 1 << 20

// DecodeError reports a payload that could not be turned into a document.
type DecodeError struct {
	// Stage is one of "base64", "json" or "schema".
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode list state: %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets callers treat every decode failure as bad input.
func (e *DecodeError) Is(target error) bool { return target == apperr.ErrInvalidInput }

func schemaErr(format string, args ...any) error {
	return &DecodeError{Stage: "schema", Err: fmt.Errorf(format, args...)}
}

// Encode serializes doc as JSON and then as unpadded URL-safe base64, so the
// result can be used directly as a path segment.
func Encode(doc packing.Document) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. Standard and URL-safe alphabets are both accepted,
// with or without padding.
func Decode(state string) (packing.Document, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return packing.Document{}, &DecodeError{Stage: "base64", Err: fmt.Errorf("empty state")}
	}
	if len(state) > MaxStateLen {
		return packing.Document{}, &DecodeError{Stage: "base64", Err: fmt.Errorf("state exceeds %d bytes", MaxStateLen)}
	}
	state = strings.TrimRight(state, "=")
	enc := base64.RawURLEncoding
	if strings.ContainsAny(state, "+/") {
		enc = base64.RawStdEncoding
	}
	data, err := enc.DecodeString(state)
	if err != nil {
		return packing.Document{}, &DecodeError{Stage: "base64", Err: err}
	}
	if !utf8.Valid(data) {
		// btoa output: one byte per code point up to U+00FF.
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return packing.Document{}, &DecodeError{Stage: "json", Err: err}
		}
	}
	return Unmarshal(data)
}

// Marshal returns the plain JSON form of doc, as stored on the shelf.
func Marshal(doc packing.Document) ([]byte, error) {
	if doc.Items == nil {
		doc.Items = []packing.Node{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return data, nil
}

// MarshalIndent is Marshal with two-space indentation for files meant to be
// read by people.
func MarshalIndent(doc packing.Document) ([]byte, error) {
	if doc.Items == nil {
		doc.Items = []packing.Node{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return append(data, '\n'), nil
}

type wireDocument struct {
	Name  *string         `json:"name"`
	Items json.RawMessage `json:"items"`
}

type wireNode struct {
	Kind    *string         `json:"kind"`
	ID      *string         `json:"id"`
	Name    *string         `json:"name"`
	Checked *bool           `json:"checked"`
	Items   json.RawMessage `json:"items"`
}

// Unmarshal parses and validates the JSON form of a document. A top-level
// array is read as the items of an unnamed document. Nodes without a kind tag
// are classified by the presence of an items array.
func Unmarshal(data []byte) (packing.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return packing.Document{}, &DecodeError{Stage: "json", Err: fmt.Errorf("empty document")}
	}

	var (
		name  = DefaultListName
		items json.RawMessage
	)
	if data[0] == '[' {
		items = data
	} else {
		var wd wireDocument
		if err := json.Unmarshal(data, &wd); err != nil {
			return packing.Document{}, &DecodeError{Stage: "json", Err: err}
		}
		if wd.Name != nil {
			name = *wd.Name
		}
		items = wd.Items
	}
	if !isArray(items) {
		return packing.Document{}, schemaErr("document items must be an array")
	}

	seen := map[string]struct{}{packing.RootID: {}}
	nodes, err := decodeChildren(items, seen, "items")
	if err != nil {
		return packing.Document{}, err
	}
	return packing.Document{Name: name, Items: nodes}, nil
}

func decodeChildren(raw json.RawMessage, seen map[string]struct{}, path string) ([]packing.Node, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &DecodeError{Stage: "json", Err: err}
	}
	out := make([]packing.Node, 0, len(elems))
	for i, elem := range elems {
		n, err := decodeNode(elem, seen, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeNode(raw json.RawMessage, seen map[string]struct{}, path string) (packing.Node, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return packing.Node{}, &DecodeError{Stage: "json", Err: fmt.Errorf("%s: %w", path, err)}
	}
	if w.ID == nil || *w.ID == "" {
		return packing.Node{}, schemaErr("%s: id is required", path)
	}
	if w.Name == nil {
		return packing.Node{}, schemaErr("%s: name is required", path)
	}
	id := *w.ID
	if _, dup := seen[id]; dup {
		if id == packing.RootID {
			return packing.Node{}, schemaErr("%s: id %q is reserved", path, id)
		}
		return packing.Node{}, schemaErr("%s: duplicate id %q", path, id)
	}
	seen[id] = struct{}{}

	var kind packing.Kind
	switch {
	case w.Kind != nil:
		kind = packing.Kind(*w.Kind)
	case isArray(w.Items):
		kind = packing.KindList
	default:
		kind = packing.KindItem
	}

	n := packing.Node{Kind: kind, ID: id, Name: *w.Name}
	switch kind {
	case packing.KindItem:
		if len(w.Items) > 0 && !isNull(w.Items) {
			return packing.Node{}, schemaErr("%s: item %q must not have items", path, id)
		}
		if w.Checked != nil {
			n.Checked = *w.Checked
		}
	case packing.KindList:
		if !isArray(w.Items) {
			return packing.Node{}, schemaErr("%s: list %q must have an items array", path, id)
		}
		children, err := decodeChildren(w.Items, seen, path+".items")
		if err != nil {
			return packing.Node{}, err
		}
		n.Items = children
	default:
		return packing.Node{}, schemaErr("%s: unknown kind %q", path, kind)
	}
	return n, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
