package research

import (
	"testing"

	"github.com/turnforge/atlascore/internal/ruleset"
)

func testRuleset() ruleset.Provider {
	return ruleset.NewProvider(ruleset.Default())
}

func TestSetCurrentResearchRejectsMissingPrereqs(t *testing.T) {
	mgr := NewManager(testRuleset())
	if err := mgr.SetCurrentResearch("p1", "writing"); err == nil {
		t.Fatal("expected PrereqNotMet: writing requires alphabet")
	}
	if err := mgr.SetCurrentResearch("p1", "alphabet"); err != nil {
		t.Fatalf("alphabet has no prereqs: %v", err)
	}
}

func TestAddResearchPointsCompletesAtCost(t *testing.T) {
	mgr := NewManager(testRuleset())
	if err := mgr.SetCurrentResearch("p1", "alphabet"); err != nil {
		t.Fatal(err)
	}
	completed := mgr.AddResearchPoints("p1", 10)
	if len(completed) != 0 {
		t.Fatalf("partial bulbs should not complete a tech yet, got %v", completed)
	}
	completed = mgr.AddResearchPoints("p1", 15)
	if len(completed) != 1 || completed[0] != "alphabet" {
		t.Fatalf("expected alphabet to complete, got %v", completed)
	}
	if !mgr.Get("p1").Completed["alphabet"] {
		t.Fatal("alphabet should be marked completed")
	}
	if mgr.Get("p1").CurrentTech != "" {
		t.Fatal("current tech should reset to await selection after completion")
	}
}

func TestAddResearchPointsCarriesExcessBulbsPastCompletion(t *testing.T) {
	mgr := NewManager(testRuleset())
	mgr.SetCurrentResearch("p1", "bronze_working") // cost 20
	completed := mgr.AddResearchPoints("p1", 35)
	if len(completed) != 1 || completed[0] != "bronze_working" {
		t.Fatalf("expected bronze_working to complete, got %v", completed)
	}
	if got := mgr.Get("p1").BulbsAccumulated; got != 15 {
		t.Fatalf("expected 15 carried-over bulbs, got %d", got)
	}
	if mgr.Get("p1").CurrentTech != "" {
		t.Fatal("completing a tech should clear CurrentTech until the client selects the next one")
	}
}

func TestSetCurrentResearchRejectsAlreadyCompleted(t *testing.T) {
	mgr := NewManager(testRuleset())
	mgr.SetCurrentResearch("p1", "pottery")
	mgr.AddResearchPoints("p1", 20)
	if err := mgr.SetCurrentResearch("p1", "pottery"); err == nil {
		t.Fatal("expected AlreadyResearched")
	}
}
