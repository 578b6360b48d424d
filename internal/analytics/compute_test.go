package analytics

import (
	"reflect"
	"testing"

	"alliance-tracker/internal/domain"
)

func rosterPlayer(id, name string, bg int) domain.Player {
	return domain.Player{ID: id, Name: name, Battlegroup: bg}
}

func pathFor(playerID string, deaths int) domain.Path {
	return domain.Path{
		Encounter:  domain.Encounter{AssignedPlayerID: playerID, PrimaryDeaths: deaths},
		Section:    1,
		PathNumber: 1,
	}
}

func warWithPath(result string, p domain.Path) domain.War {
	return domain.War{
		ID:             "war-" + result,
		Name:           "War",
		AllianceResult: result,
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{p}},
		},
	}
}

// --- outcome tally ---

func TestWinRate_NoWars(t *testing.T) {
	out := Compute(nil, []domain.Player{rosterPlayer("p1", "Ada", 0)})
	if out.TotalWars != 0 {
		t.Fatalf("total wars should be 0, got %d", out.TotalWars)
	}
	if out.WinRate != 0 {
		t.Fatalf("win rate with no wars should be 0, got %.2f", out.WinRate)
	}
}

func TestOutcomeClassification(t *testing.T) {
	wars := []domain.War{
		warWithPath("win", pathFor("p1", 0)),
		warWithPath("loss", pathFor("p1", 0)),
		warWithPath("Tie", pathFor("p1", 0)),
		warWithPath("draw", pathFor("p1", 0)),
		warWithPath("", pathFor("p1", 0)),
		warWithPath("something-else", pathFor("p1", 0)),
	}
	out := Compute(wars, nil)
	if out.Wins != 1 || out.Losses != 1 || out.Ties != 2 || out.Pending != 2 {
		t.Fatalf("tally wrong: wins=%d losses=%d ties=%d pending=%d",
			out.Wins, out.Losses, out.Ties, out.Pending)
	}
}

// --- vacuous rates ---

func TestSoloRate_ZeroFightsIsHundred(t *testing.T) {
	if r := soloRate(0, 0); r != 100 {
		t.Fatalf("zero fights should give 100, got %.2f", r)
	}
}

func TestSoloRate_AllDeaths(t *testing.T) {
	if r := soloRate(2, 2); r != 0 {
		t.Fatalf("2 fights 2 deaths should give 0, got %.2f", r)
	}
}

func TestEmptyInputs_WellFormedSnapshot(t *testing.T) {
	out := Compute(nil, nil)
	if out.TotalFights != 0 || out.TotalDeaths != 0 {
		t.Fatalf("expected zero totals, got fights=%d deaths=%d", out.TotalFights, out.TotalDeaths)
	}
	if out.OverallSoloRate != 100 {
		t.Fatalf("overall solo rate on empty season should be 100, got %.2f", out.OverallSoloRate)
	}
	for _, g := range out.BattlegroupTotals {
		if g.SoloRate != 100 {
			t.Fatalf("battlegroup %d solo rate should be 100, got %.2f", g.Number, g.SoloRate)
		}
	}
	if len(out.PlayerStats) != 0 || len(out.HardestNodes) != 0 {
		t.Fatalf("expected empty lists, got %d players %d nodes", len(out.PlayerStats), len(out.HardestNodes))
	}
}

// --- backup exclusion ---

func TestBackupFight_ExcludedFromSharedTotals(t *testing.T) {
	p := domain.Path{
		Encounter: domain.Encounter{
			AssignedPlayerID: "A",
			PrimaryDeaths:    1,
			BackupHelped:     true,
			BackupPlayerID:   "B",
			BackupDeaths:     2,
		},
		Section:    1,
		PathNumber: 1,
	}
	out := Compute([]domain.War{warWithPath("win", p)}, nil)

	g := out.BattlegroupTotals[0]
	if g.Fights != 1 || g.Deaths != 1 {
		t.Fatalf("group totals should exclude backup: fights=%d deaths=%d", g.Fights, g.Deaths)
	}

	a, ok := out.PlayerByID("A")
	if !ok || a.TotalFights != 1 || a.TotalDeaths != 1 {
		t.Fatalf("player A should have 1 fight 1 death, got %+v", a)
	}
	b, ok := out.PlayerByID("B")
	if !ok || b.TotalFights != 1 || b.TotalDeaths != 2 {
		t.Fatalf("player B should have 1 fight 2 deaths, got %+v", b)
	}
	if len(b.WarHistory) != 1 || len(b.WarHistory[0].FightDetails) != 1 {
		t.Fatalf("player B should have one fight detail")
	}
	if !b.WarHistory[0].FightDetails[0].WasBackup {
		t.Fatal("player B's fight should be marked as backup")
	}

	if len(out.HardestNodes) == 0 {
		t.Fatal("expected a node heat entry")
	}
	node := out.HardestNodes[0]
	if node.Fights != 1 || node.Deaths != 1 {
		t.Fatalf("node heat should exclude backup: fights=%d deaths=%d", node.Fights, node.Deaths)
	}
}

func TestBackupNotHelped_BackupIDIgnored(t *testing.T) {
	p := domain.Path{
		Encounter: domain.Encounter{
			AssignedPlayerID: "A",
			BackupPlayerID:   "B", // stale assignment, flag off
		},
		Section:    1,
		PathNumber: 1,
	}
	out := Compute([]domain.War{warWithPath("win", p)}, nil)
	if _, ok := out.PlayerByID("B"); ok {
		t.Fatal("backup without backupHelped should not count")
	}
}

// --- ranking ---

func TestPlayerRanking_FightsBreakDeathTies(t *testing.T) {
	war := domain.War{
		ID:             "w1",
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{
				Number: 1,
				Paths: []domain.Path{
					{Encounter: domain.Encounter{AssignedPlayerID: "few", PrimaryDeaths: 1}, Section: 1, PathNumber: 1},
					{Encounter: domain.Encounter{AssignedPlayerID: "many", PrimaryDeaths: 1}, Section: 1, PathNumber: 2},
					{Encounter: domain.Encounter{AssignedPlayerID: "many", PrimaryDeaths: 0}, Section: 1, PathNumber: 3},
				},
			},
		},
	}
	out := Compute([]domain.War{war}, nil)
	if len(out.PlayerStats) != 2 {
		t.Fatalf("expected 2 players, got %d", len(out.PlayerStats))
	}
	if out.PlayerStats[0].PlayerID != "many" {
		t.Fatalf("equal deaths should rank the higher fight count first, got %q", out.PlayerStats[0].PlayerID)
	}
}

func TestPlayerRanking_FewestDeathsFirst(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{
				Number: 1,
				Paths: []domain.Path{
					{Encounter: domain.Encounter{AssignedPlayerID: "dies", PrimaryDeaths: 3}, Section: 1, PathNumber: 1},
					{Encounter: domain.Encounter{AssignedPlayerID: "clean", PrimaryDeaths: 0}, Section: 1, PathNumber: 2},
				},
			},
		},
	}
	out := Compute([]domain.War{war}, nil)
	if out.PlayerStats[0].PlayerID != "clean" {
		t.Fatalf("fewest deaths should rank first, got %q", out.PlayerStats[0].PlayerID)
	}
}

// --- hardest nodes ---

func TestHardestNodes_AbsoluteDeathsBeforeRate(t *testing.T) {
	// Slot 1: fought 50 times, 10 deaths (20% rate).
	// Slot 2: fought once, 1 death (100% rate).
	var wars []domain.War
	for i := 0; i < 50; i++ {
		deaths := 0
		if i < 10 {
			deaths = 1
		}
		wars = append(wars, domain.War{
			AllianceResult: "win",
			Battlegroups: []domain.Battlegroup{
				{
					Number: 1,
					Paths: []domain.Path{
						{Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: deaths}, Section: 1, PathNumber: 1},
					},
				},
			},
		})
	}
	wars[0].Battlegroups[0].Paths = append(wars[0].Battlegroups[0].Paths, domain.Path{
		Encounter: domain.Encounter{AssignedPlayerID: "q", PrimaryDeaths: 1},
		Section:   2, PathNumber: 1,
	})

	out := Compute(wars, nil)
	if len(out.HardestNodes) < 2 {
		t.Fatalf("expected at least 2 heat entries, got %d", len(out.HardestNodes))
	}
	top := out.HardestNodes[0]
	if top.Deaths != 10 || top.Fights != 50 {
		t.Fatalf("severity policy broken: top node deaths=%d fights=%d", top.Deaths, top.Fights)
	}
	if top.DeathRate != 20 {
		t.Fatalf("top node rate should be 20, got %.2f", top.DeathRate)
	}
}

func TestHardestNodes_CappedAtTen(t *testing.T) {
	bg := domain.Battlegroup{Number: 1}
	for i := 1; i <= 9; i++ {
		bg.Paths = append(bg.Paths, domain.Path{
			Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: i},
			Section:   1, PathNumber: i,
		})
	}
	for i := 1; i <= 9; i++ {
		bg.Paths = append(bg.Paths, domain.Path{
			Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: i},
			Section:   2, PathNumber: i,
		})
	}
	out := Compute([]domain.War{{AllianceResult: "win", Battlegroups: []domain.Battlegroup{bg}}}, nil)
	if len(out.HardestNodes) != 10 {
		t.Fatalf("hardest nodes should cap at 10, got %d", len(out.HardestNodes))
	}
}

func TestUnfoughtSlot_NeverOutranksFoughtSlot(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{
				Number: 1,
				Paths: []domain.Path{
					{Encounter: domain.Encounter{}, Section: 1, PathNumber: 1}, // unassigned
					{Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: 0}, Section: 1, PathNumber: 2},
				},
			},
		},
	}
	out := Compute([]domain.War{war}, nil)
	for i, node := range out.HardestNodes {
		if node.Fights > 0 {
			for _, earlier := range out.HardestNodes[:i] {
				if earlier.Fights == 0 {
					t.Fatal("never-fought slot ranked above a fought slot")
				}
			}
		}
	}
}

// --- idempotence / purity ---

func TestCompute_Deterministic(t *testing.T) {
	wars := []domain.War{
		warWithPath("win", pathFor("p1", 1)),
		warWithPath("loss", pathFor("p2", 0)),
	}
	players := []domain.Player{rosterPlayer("p1", "Ada", 0), rosterPlayer("p2", "Grace", 1)}
	first := Compute(wars, players)
	second := Compute(wars, players)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs must produce deep-equal snapshots")
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	wars := []domain.War{
		{
			AllianceResult: "win",
			Battlegroups: []domain.Battlegroup{
				{Number: 0, Paths: []domain.Path{{Encounter: domain.Encounter{AssignedPlayerID: "p"}}}},
			},
		},
	}
	Compute(wars, nil)
	if wars[0].Battlegroups[0].Number != 0 {
		t.Fatal("normalization must not write back into the caller's wars")
	}
	if wars[0].Battlegroups[0].Paths[0].Section != 0 {
		t.Fatal("normalization must not write back into the caller's paths")
	}
}

// --- unknown roster ids ---

func TestUnknownRosterID_StillCounted(t *testing.T) {
	out := Compute([]domain.War{warWithPath("win", pathFor("ghost", 2))}, []domain.Player{rosterPlayer("p1", "Ada", 0)})
	stats, ok := out.PlayerByID("ghost")
	if !ok {
		t.Fatal("fight under an unknown id must still produce a season entry")
	}
	if stats.Name != UnknownPlayerName {
		t.Fatalf("unknown id should resolve to placeholder name, got %q", stats.Name)
	}
	if stats.TotalFights != 1 || stats.TotalDeaths != 2 {
		t.Fatalf("unknown id fight dropped: %+v", stats)
	}
}

func TestRosterGroup_FallsBackToFightingBattlegroup(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1},
			{Number: 2, Paths: []domain.Path{pathFor("ghost", 0)}},
			{Number: 3},
		},
	}
	out := Compute([]domain.War{war}, nil)
	stats, _ := out.PlayerByID("ghost")
	if stats.BGNumber != 1 {
		t.Fatalf("unrostered player should fall back to battlegroup index 1, got %d", stats.BGNumber)
	}
}

func TestRosterGroup_PreferredOverFightingBattlegroup(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{pathFor("p1", 0)}},
		},
	}
	out := Compute([]domain.War{war}, []domain.Player{rosterPlayer("p1", "Ada", 2)})
	stats, _ := out.PlayerByID("p1")
	if stats.BGNumber != 2 {
		t.Fatalf("roster assignment should win, got %d", stats.BGNumber)
	}
}

// --- no-show cover ---

func TestNoShowCover_FightWithZeroDeaths(t *testing.T) {
	p := domain.Path{
		Encounter: domain.Encounter{
			AssignedPlayerID:   "absent",
			PrimaryDeaths:      0,
			PlayerNoShow:       true,
			ReplacedByPlayerID: "hero",
		},
		Section:    1,
		PathNumber: 1,
	}
	out := Compute([]domain.War{warWithPath("win", p)}, nil)

	hero, ok := out.PlayerByID("hero")
	if !ok {
		t.Fatal("cover fight should create a season entry for the replacement")
	}
	if hero.TotalFights != 1 || hero.TotalDeaths != 0 {
		t.Fatalf("cover fight should be 1 fight 0 deaths, got %+v", hero)
	}
	if hero.PathFights != 1 {
		t.Fatalf("cover fight should hit the path sub-counter, got %d", hero.PathFights)
	}

	absent, _ := out.PlayerByID("absent")
	if absent.TotalFights != 1 {
		t.Fatalf("assigned primary still counts a fight on a no-show, got %d", absent.TotalFights)
	}
	if len(absent.WarHistory) != 1 || !absent.WarHistory[0].FightDetails[0].NoShow {
		t.Fatal("primary's fight detail should carry the no-show flag")
	}
}

// --- unassigned slots ---

func TestUnassignedMiniBoss_ContributesNothing(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{
				Number:     1,
				MiniBosses: []domain.MiniBoss{{NodeNumber: 2, Name: "Warden"}},
			},
		},
	}
	out := Compute([]domain.War{war}, nil)
	if len(out.PlayerStats) != 0 {
		t.Fatalf("unassigned slot must not create player entries, got %d", len(out.PlayerStats))
	}
	if out.TotalFights != 0 || out.TotalDeaths != 0 {
		t.Fatalf("unassigned slot must not count fights, got %d/%d", out.TotalFights, out.TotalDeaths)
	}
	for _, node := range out.HardestNodes {
		if node.Key.Kind == KindMiniBoss && (node.Fights != 0 || node.Deaths != 0 || node.DeathRate != 0) {
			t.Fatalf("unfought mini-boss entry should stay zeroed, got %+v", node)
		}
	}
}

func TestMissingCollections_TreatedAsEmpty(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1}, // nil paths, nil miniBosses, zero-value boss
		},
	}
	out := Compute([]domain.War{war}, nil)
	if out.TotalWars != 1 || out.Wins != 1 {
		t.Fatalf("war with empty battlegroup should still tally, got %+v", out)
	}
}

// --- scenarios ---

func TestScenario_SingleCleanWar(t *testing.T) {
	war := domain.War{
		ID:             "w1",
		Name:           "Opening War",
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{pathFor("p1", 0)}},
		},
	}
	out := Compute([]domain.War{war}, []domain.Player{rosterPlayer("p1", "Ada", 0)})

	if out.WinRate != 100 {
		t.Fatalf("win rate should be 100, got %.2f", out.WinRate)
	}
	if out.TotalFights != 1 || out.TotalDeaths != 0 {
		t.Fatalf("global totals wrong: %d/%d", out.TotalFights, out.TotalDeaths)
	}
	if len(out.PlayerStats) != 1 {
		t.Fatalf("expected 1 player, got %d", len(out.PlayerStats))
	}
	stats := out.PlayerStats[0]
	if stats.PlayerID != "p1" || stats.TotalFights != 1 || stats.TotalDeaths != 0 || stats.OverallSoloRate != 100 {
		t.Fatalf("player stats wrong: %+v", stats)
	}
}

func TestScenario_TwoWarHistory(t *testing.T) {
	wars := []domain.War{
		warWithPath("win", pathFor("p1", 1)),
		warWithPath("loss", pathFor("p1", 1)),
	}
	out := Compute(wars, []domain.Player{rosterPlayer("p1", "Ada", 0)})

	if out.WinRate != 50 {
		t.Fatalf("win rate should be 50, got %.2f", out.WinRate)
	}
	stats, _ := out.PlayerByID("p1")
	if stats.TotalFights != 2 || stats.TotalDeaths != 2 {
		t.Fatalf("totals wrong: %d/%d", stats.TotalFights, stats.TotalDeaths)
	}
	if stats.OverallSoloRate != 0 {
		t.Fatalf("solo rate should be 0, got %.2f", stats.OverallSoloRate)
	}
	if len(stats.WarHistory) != 2 {
		t.Fatalf("expected 2 war records, got %d", len(stats.WarHistory))
	}
	if stats.WarHistory[0].WarNumber != 1 || stats.WarHistory[1].WarNumber != 2 {
		t.Fatalf("war history out of order: %d then %d",
			stats.WarHistory[0].WarNumber, stats.WarHistory[1].WarNumber)
	}
}

func TestPlayerInTwoBattlegroups_TwoWarRecords(t *testing.T) {
	// Scratch records live per battlegroup, so a player fielded in two
	// battlegroups of one war gets a separate war record for each.
	war := domain.War{
		ID:             "w1",
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{pathFor("dual", 1)}},
			{Number: 2, Paths: []domain.Path{pathFor("dual", 0)}},
		},
	}
	out := Compute([]domain.War{war}, nil)

	stats, ok := out.PlayerByID("dual")
	if !ok {
		t.Fatal("expected a season entry for the player")
	}
	if len(stats.WarHistory) != 2 {
		t.Fatalf("expected one war record per battlegroup, got %d", len(stats.WarHistory))
	}
	if stats.WarHistory[0].BattlegroupNumber != 1 || stats.WarHistory[1].BattlegroupNumber != 2 {
		t.Fatalf("war records should carry their own battlegroup numbers: %d and %d",
			stats.WarHistory[0].BattlegroupNumber, stats.WarHistory[1].BattlegroupNumber)
	}
	if stats.WarHistory[0].WarNumber != 1 || stats.WarHistory[1].WarNumber != 1 {
		t.Fatal("both records belong to the same war")
	}
	if stats.TotalFights != 2 || stats.TotalDeaths != 1 {
		t.Fatalf("season totals should sum both records, got %d/%d", stats.TotalFights, stats.TotalDeaths)
	}
}

func TestDeathDistribution_ByKind(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{
				Number: 1,
				Paths: []domain.Path{
					{Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: 2}, Section: 1, PathNumber: 1},
				},
				MiniBosses: []domain.MiniBoss{
					{Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: 3}, NodeNumber: 1},
				},
				Boss: domain.Boss{Encounter: domain.Encounter{AssignedPlayerID: "p", PrimaryDeaths: 5}},
			},
		},
	}
	out := Compute([]domain.War{war}, nil)
	d := out.DeathDistribution
	if d.Path != 2 || d.MiniBoss != 3 || d.Boss != 5 {
		t.Fatalf("distribution wrong: %+v", d)
	}
	stats, _ := out.PlayerByID("p")
	if stats.BossFights != 1 || stats.BossDeaths != 5 || stats.MiniBossFights != 1 || stats.PathFights != 1 {
		t.Fatalf("sub-counters wrong: %+v", stats)
	}
}

func TestBattlegroupTotals_SplitByGroup(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{pathFor("a", 1)}},
			{Number: 2, Paths: []domain.Path{pathFor("b", 0)}},
			{Number: 3},
		},
	}
	out := Compute([]domain.War{war}, nil)
	if out.BattlegroupTotals[0].Fights != 1 || out.BattlegroupTotals[0].Deaths != 1 {
		t.Fatalf("bg1 totals wrong: %+v", out.BattlegroupTotals[0])
	}
	if out.BattlegroupTotals[1].Fights != 1 || out.BattlegroupTotals[1].Deaths != 0 {
		t.Fatalf("bg2 totals wrong: %+v", out.BattlegroupTotals[1])
	}
	if out.BattlegroupTotals[2].Fights != 0 || out.BattlegroupTotals[2].SoloRate != 100 {
		t.Fatalf("bg3 totals wrong: %+v", out.BattlegroupTotals[2])
	}
	if out.TotalFights != 2 || out.TotalDeaths != 1 {
		t.Fatalf("global totals should sum the groups: %d/%d", out.TotalFights, out.TotalDeaths)
	}
}

// --- selectors ---

func TestFilterByBattlegroup(t *testing.T) {
	war := domain.War{
		AllianceResult: "win",
		Battlegroups: []domain.Battlegroup{
			{Number: 1, Paths: []domain.Path{pathFor("a", 0)}},
			{Number: 2, Paths: []domain.Path{pathFor("b", 0)}},
		},
	}
	out := Compute([]domain.War{war}, nil)
	bg0 := out.FilterByBattlegroup(0)
	if len(bg0) != 1 || bg0[0].PlayerID != "a" {
		t.Fatalf("filter wrong: %+v", bg0)
	}
	if got := out.FilterByBattlegroup(2); len(got) != 0 {
		t.Fatalf("empty battlegroup should filter to nothing, got %d", len(got))
	}
}

func TestPlayerByID_Missing(t *testing.T) {
	out := Compute(nil, nil)
	if _, ok := out.PlayerByID("nobody"); ok {
		t.Fatal("missing player should report not found")
	}
}
