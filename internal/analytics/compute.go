package analytics

import (
	"fmt"
	"sort"
	"strings"

	"alliance-tracker/internal/domain"
)

// Compute builds the full season snapshot from the ordered war list and the
// roster. Pure: no I/O, no clock, no shared state — identical inputs always
// produce identical output, and malformed or partial records are absorbed into
// zero-valued defaults instead of failing.
//
// A war's number is its 1-based position in the input order. The roster is
// used only to resolve display names and battlegroup assignments; fights that
// reference an id missing from the roster still count under that id.
func Compute(wars []domain.War, players []domain.Player) *SeasonAnalytics {
	wars = normalizeWars(wars)

	season := newSeasonAccumulator(players)
	nodes := newNodeHeatAccumulator()
	groups := newGroupAccumulator()
	var dist distributionAccumulator

	out := &SeasonAnalytics{TotalWars: len(wars)}

	for i, war := range wars {
		warNumber := i + 1
		tallyOutcome(out, war.AllianceResult)

		for _, bg := range war.Battlegroups {
			scratch := newWarScratch(war, warNumber, bg.Number)

			for _, p := range bg.Paths {
				key := NodeKey{Battlegroup: bg.Number, Kind: KindPath, Section: p.Section, Number: p.PathNumber}
				scanEncounter(scratch, nodes, groups, &dist, key, pathLabel(p), KindPath, p.Encounter)
			}
			for _, mb := range bg.MiniBosses {
				key := NodeKey{Battlegroup: bg.Number, Kind: KindMiniBoss, Number: mb.NodeNumber}
				scanEncounter(scratch, nodes, groups, &dist, key, miniBossLabel(mb), KindMiniBoss, mb.Encounter)
			}
			bossKey := NodeKey{Battlegroup: bg.Number, Kind: KindBoss}
			scanEncounter(scratch, nodes, groups, &dist, bossKey, "Boss", KindBoss, bg.Boss.Encounter)

			season.flush(scratch)
		}
	}

	finish(out, season, nodes, groups, &dist)
	return out
}

// scanEncounter applies one encounter slot to every accumulator it touches.
//
// Three independent sub-records can each produce a fight:
//   - the primary's fight counts everywhere: player record, battlegroup
//     totals, death distribution and node heat;
//   - a backup's fight counts only toward the backup player's own record, so
//     the shared tallies never double-count a slot;
//   - a no-show cover counts a fight for the replacement with zero deaths —
//     the encounter shape has no field for a replacement's deaths, so a cover
//     that went badly is indistinguishable from a clean one. Known gap in the
//     record shape, kept for compatibility with existing season data.
func scanEncounter(
	scratch *warScratch,
	nodes *nodeHeatAccumulator,
	groups *groupAccumulator,
	dist *distributionAccumulator,
	key NodeKey,
	label string,
	kind EncounterKind,
	enc domain.Encounter,
) {
	heatLabel := fmt.Sprintf("BG%d %s", key.Battlegroup, label)
	nodes.visit(key, heatLabel)

	if enc.AssignedPlayerID != "" {
		rec := scratch.touch(enc.AssignedPlayerID)
		rec.addFight(kind, enc.PrimaryDeaths, FightDetail{
			WarNumber:   scratch.warNumber,
			NodeLabel:   label,
			Kind:        kind,
			Battlegroup: key.Battlegroup,
			Deaths:      enc.PrimaryDeaths,
			NoShow:      enc.PlayerNoShow,
		})
		groups.addPrimary(key.Battlegroup, enc.PrimaryDeaths)
		dist.add(kind, enc.PrimaryDeaths)
		nodes.recordPrimary(key, heatLabel, enc.PrimaryDeaths)
	}

	if enc.BackupHelped && enc.BackupPlayerID != "" {
		rec := scratch.touch(enc.BackupPlayerID)
		rec.addFight(kind, enc.BackupDeaths, FightDetail{
			WarNumber:   scratch.warNumber,
			NodeLabel:   label + " (backup)",
			Kind:        kind,
			Battlegroup: key.Battlegroup,
			Deaths:      enc.BackupDeaths,
			WasBackup:   true,
		})
	}

	if enc.PlayerNoShow && enc.ReplacedByPlayerID != "" {
		rec := scratch.touch(enc.ReplacedByPlayerID)
		rec.addFight(kind, 0, FightDetail{
			WarNumber:   scratch.warNumber,
			NodeLabel:   label + " (cover)",
			Kind:        kind,
			Battlegroup: key.Battlegroup,
			NoShow:      true,
		})
	}
}

func tallyOutcome(out *SeasonAnalytics, result string) {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case domain.ResultWin:
		out.Wins++
	case domain.ResultLoss:
		out.Losses++
	case domain.ResultTie, domain.ResultDraw:
		out.Ties++
	default:
		out.Pending++
	}
}

// finish runs the derivation pass: season sums, rates and both rankings.
func finish(
	out *SeasonAnalytics,
	season *seasonAccumulator,
	nodes *nodeHeatAccumulator,
	groups *groupAccumulator,
	dist *distributionAccumulator,
) {
	if out.TotalWars > 0 {
		out.WinRate = float64(out.Wins) / float64(out.TotalWars) * 100
	}

	out.PlayerStats = make([]PlayerSeasonStats, 0, len(season.order))
	for _, playerID := range season.order {
		stats := season.players[playerID]
		for _, rec := range stats.WarHistory {
			stats.TotalFights += rec.Fights
			stats.TotalDeaths += rec.Deaths
			stats.PathFights += rec.PathFights
			stats.PathDeaths += rec.PathDeaths
			stats.MiniBossFights += rec.MiniBossFights
			stats.MiniBossDeaths += rec.MiniBossDeaths
			stats.BossFights += rec.BossFights
			stats.BossDeaths += rec.BossDeaths
		}
		stats.OverallSoloRate = soloRate(stats.TotalFights, stats.TotalDeaths)
		// Scan order already yields ascending war numbers; enforced anyway so
		// out-of-order input can never leak into a player's history.
		sort.SliceStable(stats.WarHistory, func(i, j int) bool {
			return stats.WarHistory[i].WarNumber < stats.WarHistory[j].WarNumber
		})
		out.PlayerStats = append(out.PlayerStats, *stats)
	}

	// Ranking: fewest deaths first; equal deaths, more fights first. The
	// volume tie-break is deliberate — consumers rely on these positions.
	sort.SliceStable(out.PlayerStats, func(i, j int) bool {
		a, b := out.PlayerStats[i], out.PlayerStats[j]
		if a.TotalDeaths != b.TotalDeaths {
			return a.TotalDeaths < b.TotalDeaths
		}
		return a.TotalFights > b.TotalFights
	})

	heat := make([]NodeHeatEntry, 0, len(nodes.order))
	for _, key := range nodes.order {
		e := nodes.entries[key]
		if e.Fights > 0 {
			e.DeathRate = float64(e.Deaths) / float64(e.Fights) * 100
		}
		heat = append(heat, *e)
	}
	// Hardest nodes rank absolute deaths above death rate on purpose: a slot
	// fought 50 times for 10 deaths outranks one fought once for 1 death.
	// The fights tie-break keeps never-fought slots below fought ones.
	sort.SliceStable(heat, func(i, j int) bool {
		a, b := heat[i], heat[j]
		if a.Deaths != b.Deaths {
			return a.Deaths > b.Deaths
		}
		if a.DeathRate != b.DeathRate {
			return a.DeathRate > b.DeathRate
		}
		return a.Fights > b.Fights
	})
	if len(heat) > HardestNodeLimit {
		heat = heat[:HardestNodeLimit]
	}
	out.HardestNodes = heat

	for i := range groups.totals {
		g := groups.totals[i]
		g.SoloRate = soloRate(g.Fights, g.Deaths)
		out.BattlegroupTotals[i] = g
		out.TotalFights += g.Fights
		out.TotalDeaths += g.Deaths
	}
	out.OverallSoloRate = soloRate(out.TotalFights, out.TotalDeaths)
	out.DeathDistribution = dist.dist
}

// soloRate is the percentage of fights finished without a death. Zero fights
// is a vacuously perfect 100, never NaN.
func soloRate(fights, deaths int) float64 {
	if fights == 0 {
		return 100
	}
	return float64(fights-deaths) / float64(fights) * 100
}

func pathLabel(p domain.Path) string {
	return fmt.Sprintf("Section %d Path %d", p.Section, p.PathNumber)
}

func miniBossLabel(mb domain.MiniBoss) string {
	if mb.Name != "" {
		return mb.Name
	}
	return fmt.Sprintf("Mini-Boss %d", mb.NodeNumber)
}
