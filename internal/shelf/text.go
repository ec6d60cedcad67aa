package shelf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/starford/packapp/internal/packing"
)

// WriteTree prints doc as an indented outline. Items show [x] or [ ]; lists
// show [x], [~] (partly packed) or [ ] followed by their direct progress.
func WriteTree(w io.Writer, doc packing.Document) error {
	bw := bufio.NewWriter(w)
	p := packing.Summarize(doc.Root())
	fmt.Fprintf(bw, "%s  (%d/%d packed, %.0f%%)\n", doc.Name, p.PackedCount, p.TotalCount, p.Percent)
	writeNodes(bw, doc.Items, "")
	return bw.Flush()
}

func writeNodes(w *bufio.Writer, nodes []packing.Node, indent string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s %s", indent, branch, mark(packing.CheckState(n)), n.Name)
		if n.IsList() {
			fmt.Fprintf(w, " (%d/%d)", packing.CountCheckedDirectChildren(n), len(n.Items))
		}
		w.WriteByte('\n')
		if n.IsList() {
			writeNodes(w, n.Items, indent+next)
		}
	}
}

func mark(st packing.State) string {
	switch {
	case st.Checked:
		return "[x]"
	case st.Indeterminate:
		return "[~]"
	default:
		return "[ ]"
	}
}
