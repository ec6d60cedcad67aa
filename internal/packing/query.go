package packing

// State is the derived pack state of a node.
type State struct {
	Checked       bool `json:"checked"`
	Indeterminate bool `json:"indeterminate"`
}

// CheckState computes the aggregate state of n.
//
// An item reports its own flag. A list is checked when every direct child is
// checked (recursively), and indeterminate when some but not all are. An empty
// list is vacuously checked.
func CheckState(n Node) State {
	if !n.IsList() {
		return State{Checked: n.Checked}
	}
	total := len(n.Items)
	checked := CountCheckedDirectChildren(n)
	return State{
		Checked:       checked == total,
		Indeterminate: checked > 0 && checked < total,
	}
}

// CountCheckedDirectChildren returns how many immediate children of list are
// themselves checked.
func CountCheckedDirectChildren(list Node) int {
	n := 0
	for _, child := range list.Items {
		if CheckState(child).Checked {
			n++
		}
	}
	return n
}

// DirectProgressPercent is the share of list's immediate children that are
// checked, in [0, 100]. An empty list is at 0.
func DirectProgressPercent(list Node) float64 {
	if len(list.Items) == 0 {
		return 0
	}
	return float64(CountCheckedDirectChildren(list)) / float64(len(list.Items)) * 100
}

// CountDescendants counts every node strictly below n.
func CountDescendants(n Node) int {
	count := 0
	for _, child := range n.Items {
		count += 1 + CountDescendants(child)
	}
	return count
}

// Tally counts the leaf items under n (n itself when it is an item).
type Tally struct {
	Items   int `json:"items"`
	Checked int `json:"checked"`
}

// CountItems returns the leaf item tally of n.
func CountItems(n Node) Tally {
	if !n.IsList() {
		t := Tally{Items: 1}
		if n.Checked {
			t.Checked = 1
		}
		return t
	}
	var t Tally
	for _, child := range n.Items {
		c := CountItems(child)
		t.Items += c.Items
		t.Checked += c.Checked
	}
	return t
}

// Progress summarizes a list for display headers.
type Progress struct {
	PackedCount int     `json:"packed_count"`
	TotalCount  int     `json:"total_count"`
	Percent     float64 `json:"percent"`
	AllItems    int     `json:"all_items"`
}

// Summarize reports direct-child progress together with the number of leaf
// items anywhere under list.
func Summarize(list Node) Progress {
	return Progress{
		PackedCount: CountCheckedDirectChildren(list),
		TotalCount:  len(list.Items),
		Percent:     DirectProgressPercent(list),
		AllItems:    CountItems(list).Items,
	}
}

// Find returns the node with id anywhere in the tree rooted at root,
// including root itself.
func Find(root Node, id string) (Node, bool) {
	if root.ID == id {
		return root, true
	}
	for _, child := range root.Items {
		if n, ok := Find(child, id); ok {
			return n, true
		}
	}
	return Node{}, false
}

// Walk calls fn for root and every descendant in depth-first pre-order.
// depth is 0 for root. Returning false from fn skips that node's children.
func Walk(root Node, fn func(n Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Items {
		walk(child, depth+1, fn)
	}
}

// IDs returns the set of every id in the tree rooted at root.
func IDs(root Node) map[string]struct{} {
	out := make(map[string]struct{})
	Walk(root, func(n Node, _ int) bool {
		out[n.ID] = struct{}{}
		return true
	})
	return out
}
