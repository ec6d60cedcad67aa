package packing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/starford/packapp/internal/apperr"
)

var equateEmpty = cmpopts.EquateEmpty()

func mustFind(t *testing.T, root Node, id string) Node {
	t.Helper()
	n, ok := Find(root, id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n
}

func TestToggle(t *testing.T) {
	root := sampleRoot()
	next, err := Toggle(root, "swimwear")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !mustFind(t, next, "swimwear").Checked {
		t.Error("swimwear should be checked after toggle")
	}
	if mustFind(t, root, "swimwear").Checked {
		t.Error("input tree was modified")
	}
	if !CheckState(mustFind(t, next, "clothes")).Checked {
		t.Error("clothes should now be fully packed")
	}
}

func TestToggle_PairIsIdentity(t *testing.T) {
	root := sampleRoot()
	for _, id := range []string{"shirts", "swimwear", "toothpaste", "passport"} {
		once, err := Toggle(root, id)
		if err != nil {
			t.Fatalf("Toggle %s: %v", id, err)
		}
		twice, err := Toggle(once, id)
		if err != nil {
			t.Fatalf("Toggle %s again: %v", id, err)
		}
		if diff := cmp.Diff(root, twice, equateEmpty); diff != "" {
			t.Errorf("toggle pair on %s changed tree (-want +got):\n%s", id, diff)
		}
	}
}

func TestToggle_NotFound(t *testing.T) {
	root := sampleRoot()
	for _, id := range []string{"ghost", "clothes", RootID} {
		next, err := Toggle(root, id)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Toggle(%q) err = %v, want not found", id, err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Kind != "item" {
			t.Errorf("Toggle(%q) err = %#v, want item NotFoundError", id, err)
		}
		if diff := cmp.Diff(root, next, equateEmpty); diff != "" {
			t.Errorf("failed toggle returned a different tree:\n%s", diff)
		}
	}
}

func TestMarkAll_Totality(t *testing.T) {
	root := list(RootID,
		list("bags",
			item("a", false),
			list("inner", item("b", false), list("deep", item("c", true))),
		),
		item("outside", false),
	)
	next, err := MarkAll(root, "bags", true)
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	bags := mustFind(t, next, "bags")
	if !CheckState(bags).Checked {
		t.Error("bags should be fully packed")
	}
	Walk(bags, func(n Node, _ int) bool {
		if n.IsItem() && !n.Checked {
			t.Errorf("descendant %s not packed", n.ID)
		}
		return true
	})
	if diff := cmp.Diff(mustFind(t, root, "outside"), mustFind(t, next, "outside")); diff != "" {
		t.Errorf("item outside subtree changed:\n%s", diff)
	}
}

func TestMarkAll_Inverse(t *testing.T) {
	root := sampleRoot()
	packed, err := MarkAll(root, "clothes", true)
	if err != nil {
		t.Fatal(err)
	}
	unpacked, err := MarkAll(packed, "clothes", false)
	if err != nil {
		t.Fatal(err)
	}
	Walk(mustFind(t, unpacked, "clothes"), func(n Node, _ int) bool {
		if n.IsItem() && n.Checked {
			t.Errorf("%s still packed", n.ID)
		}
		return true
	})

	// Structure (ids, names, nesting) is unchanged.
	ignoreChecked := cmpopts.IgnoreFields(Node{}, "Checked")
	if diff := cmp.Diff(root, unpacked, equateEmpty, ignoreChecked); diff != "" {
		t.Errorf("structure changed (-want +got):\n%s", diff)
	}
}

func TestMarkAll_RootAndErrors(t *testing.T) {
	root := sampleRoot()
	next, err := MarkAll(root, RootID, true)
	if err != nil {
		t.Fatalf("MarkAll root: %v", err)
	}
	if st := CheckState(next); !st.Checked || st.Indeterminate {
		t.Errorf("root state = %+v after packing everything", st)
	}
	if _, err := MarkAll(root, "passport", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkAll on an item err = %v, want not found", err)
	}
	if _, err := MarkAll(root, "ghost", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkAll on missing list err = %v, want not found", err)
	}
}

func TestMarkAllToggle(t *testing.T) {
	root := sampleRoot()
	next, packed, err := MarkAllToggle(root, "clothes")
	if err != nil {
		t.Fatal(err)
	}
	if !packed || !CheckState(mustFind(t, next, "clothes")).Checked {
		t.Fatalf("partially packed list should be packed, packed=%v", packed)
	}
	next, packed, err = MarkAllToggle(next, "clothes")
	if err != nil {
		t.Fatal(err)
	}
	if packed || CountItems(mustFind(t, next, "clothes")).Checked != 0 {
		t.Errorf("fully packed list should be unpacked, packed=%v", packed)
	}
}

func TestInsertAndDeleteInverse(t *testing.T) {
	root := sampleRoot()
	tests := []struct {
		parent string
		kind   Kind
	}{
		{RootID, KindItem},
		{RootID, KindList},
		{"clothes", KindItem},
		{"toiletries", KindList},
	}
	for _, tt := range tests {
		node, err := newNode(tt.kind, "  Sunscreen ")
		if err != nil {
			t.Fatal(err)
		}
		if node.Name != "Sunscreen" || node.Checked {
			t.Errorf("new node = %+v", node)
		}
		inserted, err := Insert(root, tt.parent, node)
		if err != nil {
			t.Fatalf("Insert into %s: %v", tt.parent, err)
		}
		parent := mustFind(t, inserted, tt.parent)
		if last := parent.Items[len(parent.Items)-1]; last.ID != node.ID {
			t.Errorf("node not appended to %s", tt.parent)
		}
		restored, err := Delete(inserted, node.ID)
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if diff := cmp.Diff(root, restored, equateEmpty); diff != "" {
			t.Errorf("insert+delete not identity (-want +got):\n%s", diff)
		}
	}
}

func TestInsert_Errors(t *testing.T) {
	root := sampleRoot()
	fresh, _ := NewItem("towel")

	if _, err := Insert(root, "passport", fresh); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("insert into item err = %v, want not found", err)
	}
	if _, err := Insert(root, "ghost", fresh); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("insert into missing err = %v, want not found", err)
	}
	dup := Node{Kind: KindItem, ID: "shirts", Name: "again"}
	if _, err := Insert(root, RootID, dup); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate id err = %v, want already exists", err)
	}
	blank := Node{Kind: KindItem, ID: "x", Name: "   "}
	if _, err := Insert(root, RootID, blank); !errors.Is(err, ErrInvalidName) {
		t.Errorf("blank name err = %v, want ErrInvalidName", err)
	}
	if _, err := Insert(root, RootID, Node{ID: "y", Name: "y"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("untagged node err = %v, want invalid input", err)
	}
}

func TestInsert_DoesNotShareBackingArray(t *testing.T) {
	children := make([]Node, 1, 8)
	children[0] = item("a", false)
	root := Node{Kind: KindList, ID: RootID, Name: "trip", Items: children}

	first, err := Insert(root, RootID, item("b", false))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Insert(root, RootID, item("c", false))
	if err != nil {
		t.Fatal(err)
	}
	if first.Items[1].ID != "b" || second.Items[1].ID != "c" {
		t.Errorf("inserts clobbered each other: %s, %s", first.Items[1].ID, second.Items[1].ID)
	}
	if len(root.Items) != 1 {
		t.Errorf("input root grew to %d", len(root.Items))
	}
}

func TestInsertAdjacent(t *testing.T) {
	root := sampleRoot()
	above, _ := NewItem("hat")
	below, _ := NewItem("socks")

	next, err := InsertAdjacent(root, "shorts", Above, above)
	if err != nil {
		t.Fatal(err)
	}
	next, err = InsertAdjacent(next, "shorts", Below, below)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, n := range mustFind(t, next, "clothes").Items {
		got = append(got, n.Name)
	}
	want := []string{"shirts", "hat", "shorts", "socks", "swimwear"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	other, _ := NewItem("x")
	if _, err := InsertAdjacent(root, RootID, Below, other); !errors.Is(err, ErrRootImmutable) {
		t.Errorf("root anchor err = %v", err)
	}
	if _, err := InsertAdjacent(root, "ghost", Below, other); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing anchor err = %v", err)
	}
	if _, err := InsertAdjacent(root, "shorts", Position("left"), other); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("bad position err = %v", err)
	}
}

func TestRename(t *testing.T) {
	root := sampleRoot()
	next, err := Rename(root, "toiletries", "  Wash bag  ")
	if err != nil {
		t.Fatal(err)
	}
	if got := mustFind(t, next, "toiletries").Name; got != "Wash bag" {
		t.Errorf("name = %q", got)
	}
	next, err = Rename(next, RootID, "Summer 2024")
	if err != nil {
		t.Fatal(err)
	}
	if next.Name != "Summer 2024" {
		t.Errorf("root name = %q", next.Name)
	}
	if _, err := Rename(root, "shirts", " \t "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("blank rename err = %v", err)
	}
	if _, err := Rename(root, "ghost", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing rename err = %v", err)
	}
}

func TestDelete_RemovesSubtree(t *testing.T) {
	root := sampleRoot()
	before := CountDescendants(root)
	sub := CountDescendants(mustFind(t, root, "clothes"))

	next, err := Delete(root, "clothes")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := CountDescendants(next), before-1-sub; got != want {
		t.Errorf("descendants = %d, want %d", got, want)
	}
	for _, id := range []string{"clothes", "shirts", "shorts", "swimwear"} {
		if _, ok := Find(next, id); ok {
			t.Errorf("%s survived delete", id)
		}
	}
	if _, err := Delete(root, RootID); !errors.Is(err, ErrRootImmutable) {
		t.Errorf("delete root err = %v", err)
	}
	if _, err := Delete(root, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete missing err = %v", err)
	}
}

func TestMove(t *testing.T) {
	names := func(n Node) []string {
		var out []string
		for _, c := range n.Items {
			out = append(out, c.ID)
		}
		return out
	}
	root := sampleRoot()

	tests := []struct {
		id    string
		index int
		want  []string
	}{
		{"shirts", 2, []string{"shorts", "swimwear", "shirts"}},
		{"swimwear", 0, []string{"swimwear", "shirts", "shorts"}},
		{"shorts", 1, []string{"shirts", "shorts", "swimwear"}},
		{"shirts", 99, []string{"shorts", "swimwear", "shirts"}},
		{"swimwear", -5, []string{"swimwear", "shirts", "shorts"}},
	}
	for _, tt := range tests {
		next, err := Move(root, tt.id, tt.index)
		if err != nil {
			t.Fatalf("Move(%s, %d): %v", tt.id, tt.index, err)
		}
		if diff := cmp.Diff(tt.want, names(mustFind(t, next, "clothes"))); diff != "" {
			t.Errorf("Move(%s, %d) (-want +got):\n%s", tt.id, tt.index, diff)
		}
	}
	if diff := cmp.Diff([]string{"shirts", "shorts", "swimwear"}, names(mustFind(t, root, "clothes"))); diff != "" {
		t.Errorf("input modified:\n%s", diff)
	}

	if _, err := Move(root, RootID, 0); !errors.Is(err, ErrRootImmutable) {
		t.Errorf("move root err = %v", err)
	}
	if _, err := Move(root, "ghost", 0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("move missing err = %v", err)
	}
}

func TestParsePosition(t *testing.T) {
	if p, err := ParsePosition(" Above "); err != nil || p != Above {
		t.Errorf("ParsePosition above = %q, %v", p, err)
	}
	if _, err := ParsePosition("sideways"); err == nil {
		t.Error("expected error")
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
