package game

import "testing"

func TestRegistryAddGetDelete(t *testing.T) {
	r := NewRegistry()
	g := New("g1", "Test Game", "p1", testRuleset())
	r.Add(g)

	got, err := r.Get("g1")
	if err != nil || got != g {
		t.Fatalf("expected to retrieve the added instance, got %v err=%v", got, err)
	}

	r.Delete("g1")
	if _, err := r.Get("g1"); err == nil {
		t.Fatal("expected an error after deletion")
	}
}

func TestRegistryListIsSortedByID(t *testing.T) {
	r := NewRegistry()
	r.Add(New("g2", "Second", "p1", testRuleset()))
	r.Add(New("g1", "First", "p1", testRuleset()))
	r.Add(New("g3", "Third", "p1", testRuleset()))

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 games, got %d", len(list))
	}
	if list[0].ID != "g1" || list[1].ID != "g2" || list[2].ID != "g3" {
		t.Fatalf("expected sorted ids g1,g2,g3, got %s,%s,%s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestRegistryGetUnknownID(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("missing"); err == nil {
		t.Fatal("expected an error for an unknown game id")
	}
}
