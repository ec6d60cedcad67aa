// Package packing implements the recursive packing-list model: the node types,
// pure aggregate queries, and immutable tree mutations.
package packing

import "encoding/json"

// RootID is the sentinel id of a document's top-level list.
const RootID = "root"

// Kind discriminates the two node variants.
type Kind string

const (
	KindItem Kind = "item"
	KindList Kind = "list"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindItem, KindList:
		return string(k)
	default:
		return "unknown"
	}
}

// Node is either an item (leaf with a pack state) or a list (ordered children).
//
// Checked is meaningful only for items and Items only for lists. Nodes are
// treated as values: functions in this package never modify a Node they were
// given, so subtrees may be shared between successive roots.
type Node struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked,omitempty"`
	Items   []Node `json:"items,omitempty"`
}

// IsList reports whether n is a list node.
func (n Node) IsList() bool { return n.Kind == KindList }

// IsItem reports whether n is an item node.
func (n Node) IsItem() bool { return n.Kind == KindItem }

// MarshalJSON writes lists with an items array (empty rather than absent) and
// items with an explicit checked flag.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsList() {
		items := n.Items
		if items == nil {
			items = []Node{}
		}
		return json.Marshal(struct {
			Kind  Kind   `json:"kind"`
			ID    string `json:"id"`
			Name  string `json:"name"`
			Items []Node `json:"items"`
		}{n.Kind, n.ID, n.Name, items})
	}
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		ID      string `json:"id"`
		Name    string `json:"name"`
		Checked bool   `json:"checked"`
	}{n.Kind, n.ID, n.Name, n.Checked})
}

// IsList is the free-function form of Node.IsList.
func IsList(n Node) bool { return n.IsList() }

// Document is the unit of serialization: a named sequence of top-level nodes.
type Document struct {
	Name  string `json:"name"`
	Items []Node `json:"items"`
}

// Root returns the document as a list with the sentinel root id.
func (d Document) Root() Node {
	return Node{Kind: KindList, ID: RootID, Name: d.Name, Items: d.Items}
}

// FromRoot converts a root list back into a document.
func FromRoot(root Node) Document {
	items := root.Items
	if items == nil {
		items = []Node{}
	}
	return Document{Name: root.Name, Items: items}
}
