package packing

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/packapp/internal/apperr"
)

// OpType names a mutation that can be dispatched through Apply.
type OpType string

const (
	OpToggle         OpType = "toggle"
	OpMarkAll        OpType = "mark_all"
	OpInsert         OpType = "insert"
	OpInsertAdjacent OpType = "insert_adjacent"
	OpRename         OpType = "rename"
	OpDelete         OpType = "delete"
	OpMove           OpType = "move"
)

// Operation is a serializable mutation request. Which fields are required
// depends on Op; see Validate.
type Operation struct {
	Op       OpType   `json:"op"`
	ID       string   `json:"id,omitempty"`
	ParentID string   `json:"parent_id,omitempty"`
	AnchorID string   `json:"anchor_id,omitempty"`
	Position Position `json:"position,omitempty"`
	Kind     Kind     `json:"kind,omitempty"`
	Name     string   `json:"name,omitempty"`
	// Packed is the target state for mark_all. Nil toggles the list's
	// aggregate state.
	Packed *bool `json:"packed,omitempty"`
	Index  *int  `json:"index,omitempty"`
}

// Validate checks that the fields required by Op are present.
func (o Operation) Validate() error {
	targetsNode := o.Op == OpToggle || o.Op == OpMarkAll || o.Op == OpRename || o.Op == OpDelete || o.Op == OpMove
	inserts := o.Op == OpInsert || o.Op == OpInsertAdjacent
	return validation.ValidateStruct(&o,
		validation.Field(&o.Op, validation.Required,
			validation.In(OpToggle, OpMarkAll, OpInsert, OpInsertAdjacent, OpRename, OpDelete, OpMove)),
		validation.Field(&o.ID, validation.When(targetsNode, validation.Required)),
		validation.Field(&o.AnchorID, validation.When(o.Op == OpInsertAdjacent, validation.Required)),
		validation.Field(&o.Position, validation.When(o.Op == OpInsertAdjacent, validation.Required, validation.In(Above, Below))),
		validation.Field(&o.Kind, validation.When(inserts, validation.Required, validation.In(KindItem, KindList))),
		validation.Field(&o.Name, validation.When(inserts || o.Op == OpRename, validation.By(notBlank))),
		validation.Field(&o.Index, validation.When(o.Op == OpMove, validation.NotNil)),
	)
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

// Outcome is the result of a successfully applied operation.
type Outcome struct {
	Root Node
	// NodeID is the created node for inserts, otherwise the targeted node.
	NodeID string
	// Packed is the state applied by mark_all.
	Packed *bool
}

// Apply validates op and runs the matching mutation against root. On error the
// returned outcome carries the unchanged root.
func Apply(root Node, op Operation) (Outcome, error) {
	if err := op.Validate(); err != nil {
		return Outcome{Root: root}, fmt.Errorf("%w: %s: %v", apperr.ErrInvalidInput, op.Op, err)
	}

	var (
		next Node
		err  error
	)
	out := Outcome{NodeID: op.ID}

	switch op.Op {
	case OpToggle:
		next, err = Toggle(root, op.ID)
	case OpMarkAll:
		packed := false
		if op.Packed != nil {
			packed = *op.Packed
			next, err = MarkAll(root, op.ID, packed)
		} else {
			next, packed, err = MarkAllToggle(root, op.ID)
		}
		out.Packed = &packed
	case OpInsert, OpInsertAdjacent:
		var node Node
		node, err = newNode(op.Kind, op.Name)
		if err != nil {
			break
		}
		out.NodeID = node.ID
		if op.Op == OpInsert {
			next, err = Insert(root, op.ParentID, node)
		} else {
			next, err = InsertAdjacent(root, op.AnchorID, op.Position, node)
		}
	case OpRename:
		next, err = Rename(root, op.ID, op.Name)
	case OpDelete:
		next, err = Delete(root, op.ID)
	case OpMove:
		next, err = Move(root, op.ID, *op.Index)
	}
	if err != nil {
		return Outcome{Root: root}, err
	}
	out.Root = next
	return out, nil
}

func newNode(kind Kind, name string) (Node, error) {
	if kind == KindList {
		return NewList(name)
	}
	return NewItem(name)
}
