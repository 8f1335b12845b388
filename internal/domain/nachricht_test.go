package domain

import "testing"

func Test_View_PartitionsEveryFlagCombination(t *testing.T) {
	views := []View{ViewActive, ViewArchived, ViewTrashed}
	for _, archived := range []bool{false, true} {
		for _, deleted := range []bool{false, true} {
			var hits []View
			for _, v := range views {
				if v.Contains(archived, deleted) {
					hits = append(hits, v)
				}
			}
			if len(hits) != 1 {
				t.Fatalf("archived=%v deleted=%v must be in exactly one view, got %v",
					archived, deleted, hits)
			}
		}
	}
}

func Test_ParseView(t *testing.T) {
	if v, ok := ParseView(""); !ok || v != ViewActive {
		t.Fatalf("empty view must default to active, got %v %v", v, ok)
	}
	if _, ok := ParseView("inbox"); ok {
		t.Fatal("unknown view must be rejected")
	}
	for _, s := range []string{"active", "archived", "trashed"} {
		if v, ok := ParseView(s); !ok || string(v) != s {
			t.Fatalf("ParseView(%q) = %v %v", s, v, ok)
		}
	}
}
