package service

import (
	"testing"

	"alliance-tracker/internal/domain"
)

func TestEnsureBattlegroups_PadsToThree(t *testing.T) {
	war := &domain.War{}
	ensureBattlegroups(war)
	if len(war.Battlegroups) != domain.BattlegroupCount {
		t.Fatalf("expected %d battlegroups, got %d", domain.BattlegroupCount, len(war.Battlegroups))
	}
	for i, bg := range war.Battlegroups {
		if bg.Number != i+1 {
			t.Fatalf("battlegroup %d should be numbered %d, got %d", i, i+1, bg.Number)
		}
	}
}

func TestEnsureBattlegroups_TrimsExtras(t *testing.T) {
	war := &domain.War{
		Battlegroups: []domain.Battlegroup{
			{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4},
		},
	}
	ensureBattlegroups(war)
	if len(war.Battlegroups) != domain.BattlegroupCount {
		t.Fatalf("expected %d battlegroups, got %d", domain.BattlegroupCount, len(war.Battlegroups))
	}
}

func TestEnsureBattlegroups_FixesBadNumbers(t *testing.T) {
	war := &domain.War{
		Battlegroups: []domain.Battlegroup{
			{Number: 0}, {Number: 9}, {Number: 3},
		},
	}
	ensureBattlegroups(war)
	if war.Battlegroups[0].Number != 1 || war.Battlegroups[1].Number != 2 || war.Battlegroups[2].Number != 3 {
		t.Fatalf("numbers not repaired: %+v", war.Battlegroups)
	}
}

func TestNormalizeBattlegroup_Sentinel(t *testing.T) {
	if got := normalizeBattlegroup(5); got != domain.BattlegroupUnassigned {
		t.Fatalf("out-of-range group should become unassigned, got %d", got)
	}
	if got := normalizeBattlegroup(-2); got != domain.BattlegroupUnassigned {
		t.Fatalf("negative group should become unassigned, got %d", got)
	}
	if got := normalizeBattlegroup(2); got != 2 {
		t.Fatalf("valid group should pass through, got %d", got)
	}
}
