package checksum

import "testing"

func TestSumStable(t *testing.T) {
	a := Sum([]byte(`{"name":"x","items":[]}`))
	b := Sum([]byte(`{"name":"x","items":[]}`))
	if a != b || len(a) != 64 {
		t.Errorf("Sum = %q, %q", a, b)
	}
	if Sum([]byte("x")) == Sum([]byte("y")) {
		t.Error("different input, same sum")
	}
}

func TestMatch(t *testing.T) {
	sum := Sum([]byte("list"))
	tests := []struct {
		header string
		want   bool
	}{
		{"", true},
		{"*", true},
		{sum, true},
		{ETag(sum), true},
		{"W/" + ETag(sum), true},
		{`"stale", ` + ETag(sum), true},
		{"stale", false},
		{ETag("stale"), false},
	}
	for _, tt := range tests {
		if got := Match(tt.header, sum); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
