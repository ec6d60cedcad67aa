package packing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Position places an inserted node relative to an anchor sibling.
type Position string

const (
	Above Position = "above"
	Below Position = "below"
)

// ParsePosition validates a position string.
func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case Above, Below:
		return p, nil
	default:
		return "", invalidPosition(Position(s))
	}
}

// NewID returns a fresh node id.
func NewID() string {
	return uuid.NewString()
}

// NewItem returns an unchecked item with a fresh id.
func NewItem(name string) (Node, error) {
	name, err := cleanName(name)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindItem, ID: NewID(), Name: name}, nil
}

// NewList returns an empty list with a fresh id.
func NewList(name string) (Node, error) {
	name, err := cleanName(name)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindList, ID: NewID(), Name: name, Items: []Node{}}, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Toggle flips the checked flag of the item with itemID.
func Toggle(root Node, itemID string) (Node, error) {
	return update(root, itemID, KindItem, func(n Node) (Node, error) {
		n.Checked = !n.Checked
		return n, nil
	})
}

// MarkAll sets every item in the subtree of listID to packed.
func MarkAll(root Node, listID string, packed bool) (Node, error) {
	return update(root, resolveRoot(root, listID), KindList, func(n Node) (Node, error) {
		return markSubtree(n, packed), nil
	})
}

// MarkAllToggle packs the whole subtree of listID unless it is already fully
// packed, in which case it unpacks it. It returns the value that was applied.
func MarkAllToggle(root Node, listID string) (Node, bool, error) {
	list, ok := Find(root, resolveRoot(root, listID))
	if !ok || !list.IsList() {
		return root, false, &NotFoundError{Kind: "list", ID: listID}
	}
	packed := !CheckState(list).Checked
	next, err := MarkAll(root, listID, packed)
	return next, packed, err
}

func markSubtree(n Node, packed bool) Node {
	if !n.IsList() {
		n.Checked = packed
		return n
	}
	if len(n.Items) == 0 {
		return n
	}
	items := make([]Node, len(n.Items))
	for i, child := range n.Items {
		items[i] = markSubtree(child, packed)
	}
	n.Items = items
	return n
}

// Insert appends node to the list identified by parentID. RootID (or the
// root's own id) addresses the top level.
func Insert(root Node, parentID string, node Node) (Node, error) {
	if err := checkInsertable(root, node); err != nil {
		return root, err
	}
	if parentID == "" {
		parentID = RootID
	}
	return update(root, resolveRoot(root, parentID), KindList, func(p Node) (Node, error) {
		p.Items = insertAt(p.Items, len(p.Items), node)
		return p, nil
	})
}

// InsertAdjacent places node directly above or below the sibling anchorID.
func InsertAdjacent(root Node, anchorID string, pos Position, node Node) (Node, error) {
	if pos != Above && pos != Below {
		return root, invalidPosition(pos)
	}
	if anchorID == root.ID || anchorID == RootID {
		return root, ErrRootImmutable
	}
	if err := checkInsertable(root, node); err != nil {
		return root, err
	}
	parent, idx, ok := parentOf(root, anchorID)
	if !ok {
		return root, &NotFoundError{Kind: "node", ID: anchorID}
	}
	at := idx
	if pos == Below {
		at = idx + 1
	}
	return update(root, parent.ID, KindList, func(p Node) (Node, error) {
		p.Items = insertAt(p.Items, at, node)
		return p, nil
	})
}

// Rename sets the name of the node with nodeID. The name is trimmed first.
func Rename(root Node, nodeID, name string) (Node, error) {
	name, err := cleanName(name)
	if err != nil {
		return root, err
	}
	return update(root, resolveRoot(root, nodeID), "", func(n Node) (Node, error) {
		n.Name = name
		return n, nil
	})
}

// Delete removes the node with nodeID together with its whole subtree.
func Delete(root Node, nodeID string) (Node, error) {
	if nodeID == root.ID || nodeID == RootID {
		return root, ErrRootImmutable
	}
	parent, idx, ok := parentOf(root, nodeID)
	if !ok {
		return root, &NotFoundError{Kind: "node", ID: nodeID}
	}
	return update(root, parent.ID, KindList, func(p Node) (Node, error) {
		items := make([]Node, 0, len(p.Items)-1)
		items = append(items, p.Items[:idx]...)
		items = append(items, p.Items[idx+1:]...)
		p.Items = items
		return p, nil
	})
}

// Move reorders nodeID within its current parent so that it ends up at
// newIndex. Indices outside the sibling range are clamped.
func Move(root Node, nodeID string, newIndex int) (Node, error) {
	if nodeID == root.ID || nodeID == RootID {
		return root, ErrRootImmutable
	}
	parent, from, ok := parentOf(root, nodeID)
	if !ok {
		return root, &NotFoundError{Kind: "node", ID: nodeID}
	}
	to := min(max(newIndex, 0), len(parent.Items)-1)
	if to == from {
		return root, nil
	}
	return update(root, parent.ID, KindList, func(p Node) (Node, error) {
		moved := p.Items[from]
		rest := make([]Node, 0, len(p.Items)-1)
		rest = append(rest, p.Items[:from]...)
		rest = append(rest, p.Items[from+1:]...)
		p.Items = insertAt(rest, to, moved)
		return p, nil
	})
}

// update rebuilds the path from root to the node with id, replacing that node
// with fn's result. Untouched siblings are shared with the input. want
// restricts the match to one kind; an empty want matches any node.
func update(root Node, id string, want Kind, fn func(Node) (Node, error)) (Node, error) {
	next, found, err := replace(root, id, func(n Node) (Node, error) {
		if want != "" && n.Kind != want {
			return n, &NotFoundError{Kind: kindLabel(want), ID: id}
		}
		return fn(n)
	})
	if err != nil {
		return root, err
	}
	if !found {
		return root, &NotFoundError{Kind: kindLabel(want), ID: id}
	}
	return next, nil
}

func replace(n Node, id string, fn func(Node) (Node, error)) (Node, bool, error) {
	if n.ID == id {
		out, err := fn(n)
		return out, true, err
	}
	for i, child := range n.Items {
		next, found, err := replace(child, id, fn)
		if err != nil {
			return n, true, err
		}
		if !found {
			continue
		}
		items := make([]Node, len(n.Items))
		copy(items, n.Items)
		items[i] = next
		n.Items = items
		return n, true, nil
	}
	return n, false, nil
}

// parentOf finds the list that directly contains id and the child's index.
func parentOf(n Node, id string) (Node, int, bool) {
	for i, child := range n.Items {
		if child.ID == id {
			return n, i, true
		}
	}
	for _, child := range n.Items {
		if p, idx, ok := parentOf(child, id); ok {
			return p, idx, true
		}
	}
	return Node{}, 0, false
}

// ParentOf returns the id of the list that directly contains id.
func ParentOf(root Node, id string) (string, bool) {
	p, _, ok := parentOf(root, id)
	return p.ID, ok
}

// insertAt returns a new slice with node spliced in at i. The input slice is
// never written to.
func insertAt(items []Node, i int, node Node) []Node {
	i = min(max(i, 0), len(items))
	out := make([]Node, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, node)
	out = append(out, items[i:]...)
	return out
}

func checkInsertable(root, node Node) error {
	existing := IDs(root)
	var err error
	Walk(node, func(n Node, _ int) bool {
		if err != nil {
			return false
		}
		if n.Kind != KindItem && n.Kind != KindList {
			err = fmt.Errorf("%w: unknown node kind %q", ErrInvalidNode, n.Kind)
			return false
		}
		if n.ID == "" {
			err = fmt.Errorf("%w: node id is required", ErrInvalidNode)
			return false
		}
		if strings.TrimSpace(n.Name) == "" {
			err = ErrInvalidName
			return false
		}
		if _, dup := existing[n.ID]; dup {
			err = &DuplicateIDError{ID: n.ID}
			return false
		}
		existing[n.ID] = struct{}{}
		return true
	})
	return err
}

func resolveRoot(root Node, id string) string {
	if id == RootID {
		return root.ID
	}
	return id
}

func kindLabel(k Kind) string {
	if k == "" {
		return "node"
	}
	return string(k)
}

func invalidPosition(p Position) error {
	return fmt.Errorf("%w: position %q, want %q or %q", ErrInvalidNode, p, Above, Below)
}
