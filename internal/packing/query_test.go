package packing

import "testing"

func item(id string, checked bool) Node {
	return Node{Kind: KindItem, ID: id, Name: id, Checked: checked}
}

func list(id string, children ...Node) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{Kind: KindList, ID: id, Name: id, Items: children}
}

// sampleRoot mirrors the seed holiday list: two sublists, one partly packed.
func sampleRoot() Node {
	return list(RootID,
		list("clothes",
			item("shirts", true),
			item("shorts", true),
			item("swimwear", false),
		),
		list("toiletries",
			item("toothbrush", false),
			item("toothpaste", false),
		),
		item("passport", true),
	)
}

func TestCheckState(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want State
	}{
		{"unchecked item", item("a", false), State{}},
		{"checked item", item("a", true), State{Checked: true}},
		{"empty list is vacuously checked", list("l"), State{Checked: true}},
		{"half checked", list("l", item("a", false), item("b", true)), State{Indeterminate: true}},
		{"none checked", list("l", item("a", false), item("b", false)), State{}},
		{"all checked", list("l", item("a", true), item("b", true)), State{Checked: true}},
		{
			"nested fully checked",
			list("A", item("x", true), list("B", item("y", true), item("z", true))),
			State{Checked: true},
		},
		{
			"nested sublist partially checked counts as unchecked",
			list("A", item("x", true), list("B", item("y", true), item("z", false))),
			State{Indeterminate: true},
		},
		{
			"only partial sublist",
			list("A", list("B", item("y", true), item("z", false))),
			State{},
		},
		{
			"empty sublist counts as checked",
			list("A", list("B"), item("x", false)),
			State{Indeterminate: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckState(tt.node); got != tt.want {
				t.Errorf("CheckState = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheckState_IndeterminateIffStrictlyBetween(t *testing.T) {
	for checked := 0; checked <= 4; checked++ {
		children := make([]Node, 4)
		for i := range children {
			children[i] = item(string(rune('a'+i)), i < checked)
		}
		st := CheckState(list("l", children...))
		if st.Checked != (checked == 4) {
			t.Errorf("checked=%d: Checked = %v", checked, st.Checked)
		}
		if st.Indeterminate != (checked > 0 && checked < 4) {
			t.Errorf("checked=%d: Indeterminate = %v", checked, st.Indeterminate)
		}
	}
}

func TestDirectProgressPercent(t *testing.T) {
	if got := DirectProgressPercent(list("trip")); got != 0 {
		t.Errorf("empty list progress = %v, want 0", got)
	}
	if got := DirectProgressPercent(list("l", item("a", false), item("b", true))); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}
	// clothes and toiletries are incomplete, passport is packed.
	root := sampleRoot()
	if got := CountCheckedDirectChildren(root); got != 1 {
		t.Errorf("checked direct children = %d, want 1", got)
	}
	got := DirectProgressPercent(root)
	if got < 33.3 || got > 33.4 {
		t.Errorf("progress = %v, want ~33.33", got)
	}
}

func TestCountDescendants(t *testing.T) {
	if got := CountDescendants(item("a", false)); got != 0 {
		t.Errorf("item descendants = %d", got)
	}
	if got := CountDescendants(list("l")); got != 0 {
		t.Errorf("empty list descendants = %d", got)
	}
	if got := CountDescendants(sampleRoot()); got != 8 {
		t.Errorf("root descendants = %d, want 8", got)
	}
}

func TestCountItemsAndSummarize(t *testing.T) {
	root := sampleRoot()
	tally := CountItems(root)
	if tally.Items != 6 || tally.Checked != 3 {
		t.Errorf("tally = %+v, want 6 items / 3 checked", tally)
	}

	p := Summarize(root)
	if p.PackedCount != 1 || p.TotalCount != 3 || p.AllItems != 6 {
		t.Errorf("summary = %+v", p)
	}
}

func TestFindAndParentOf(t *testing.T) {
	root := sampleRoot()
	n, ok := Find(root, "toothpaste")
	if !ok || n.Name != "toothpaste" {
		t.Fatalf("Find toothpaste = %+v, %v", n, ok)
	}
	if _, ok := Find(root, "ghost"); ok {
		t.Error("Find should miss unknown ids")
	}
	if n, ok := Find(root, RootID); !ok || !n.IsList() {
		t.Error("Find should return the root itself")
	}
	parent, ok := ParentOf(root, "toothpaste")
	if !ok || parent != "toiletries" {
		t.Errorf("ParentOf = %q, %v", parent, ok)
	}
	if _, ok := ParentOf(root, RootID); ok {
		t.Error("root has no parent")
	}
}

func TestIsList(t *testing.T) {
	if !IsList(list("l")) {
		t.Error("list should be a list")
	}
	if IsList(item("i", false)) {
		t.Error("item should not be a list")
	}
	// A list without children is still a list: the tag decides, not the field.
	if !IsList(Node{Kind: KindList, ID: "x", Name: "x"}) {
		t.Error("nil items should not change the kind")
	}
}
