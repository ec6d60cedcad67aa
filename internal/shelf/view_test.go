package shelf

import (
	"testing"

	"github.com/starford/packapp/internal/packing"
	"github.com/starford/packapp/internal/testutil"
)

func TestView(t *testing.T) {
	v := View(testutil.HolidayDoc())

	if v.Checked || v.Progress.Percent != 50 || v.Tally != (packing.Tally{Items: 3, Checked: 2}) {
		t.Errorf("root view = %+v", v)
	}
	clothes := v.Items[0]
	if clothes.Checked || !clothes.Indeterminate {
		t.Errorf("clothes state = %+v", clothes)
	}
	if clothes.Progress == nil || *clothes.Progress != 50 || clothes.Descendants == nil || *clothes.Descendants != 2 {
		t.Errorf("clothes aggregates = %+v", clothes)
	}
	passport := v.Items[1]
	if !passport.Checked || passport.Progress != nil || passport.Items != nil {
		t.Errorf("passport view = %+v", passport)
	}
}

func TestView_EmptyList(t *testing.T) {
	v := View(packing.Document{Name: "Empty", Items: []packing.Node{
		{Kind: packing.KindList, ID: "bag", Name: "Bag", Items: []packing.Node{}},
	}})
	bag := v.Items[0]
	if !bag.Checked || bag.Indeterminate || *bag.Progress != 0 {
		t.Errorf("empty list view = %+v", bag)
	}
}
