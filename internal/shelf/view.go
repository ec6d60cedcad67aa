package shelf

import "github.com/starford/packapp/internal/packing"

// NodeView is a node annotated with its derived state for display.
type NodeView struct {
	Kind          packing.Kind `json:"kind"`
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Checked       bool         `json:"checked"`
	Indeterminate bool         `json:"indeterminate"`
	// List-only fields.
	Progress    *float64   `json:"progress,omitempty"`
	Descendants *int       `json:"descendants,omitempty"`
	Items       []NodeView `json:"items,omitempty"`
}

// DocumentView is the rendered form of a document.
type DocumentView struct {
	Name     string           `json:"name"`
	Checked  bool             `json:"checked"`
	Progress packing.Progress `json:"progress"`
	Tally    packing.Tally    `json:"tally"`
	Items    []NodeView       `json:"items"`
}

// View derives the display state of every node in doc.
func View(doc packing.Document) DocumentView {
	root := doc.Root()
	return DocumentView{
		Name:     doc.Name,
		Checked:  packing.CheckState(root).Checked,
		Progress: packing.Summarize(root),
		Tally:    packing.CountItems(root),
		Items:    viewChildren(root.Items),
	}
}

func viewChildren(nodes []packing.Node) []NodeView {
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = viewNode(n)
	}
	return out
}

func viewNode(n packing.Node) NodeView {
	st := packing.CheckState(n)
	v := NodeView{
		Kind:          n.Kind,
		ID:            n.ID,
		Name:          n.Name,
		Checked:       st.Checked,
		Indeterminate: st.Indeterminate,
	}
	if n.IsList() {
		pct := packing.DirectProgressPercent(n)
		desc := packing.CountDescendants(n)
		v.Progress = &pct
		v.Descendants = &desc
		v.Items = viewChildren(n.Items)
	}
	return v
}
