package analytics

import (
	"alliance-tracker/internal/domain"
)

// Each accumulation concern owns its own structure and exposes only an
// upsert-and-increment surface. The scan threads all of them through its single
// pass; nothing outside the scan mutates them.

// warScratch collects in-progress PlayerWarRecords for one battlegroup of one
// war. Flushed into the season accumulator when the battlegroup is done.
type warScratch struct {
	warID     string
	warName   string
	warNumber int
	bgNumber  int

	records map[string]*PlayerWarRecord
	order   []string
}

func newWarScratch(war domain.War, warNumber, bgNumber int) *warScratch {
	return &warScratch{
		warID:     war.ID,
		warName:   war.Name,
		warNumber: warNumber,
		bgNumber:  bgNumber,
		records:   make(map[string]*PlayerWarRecord),
	}
}

func (s *warScratch) touch(playerID string) *PlayerWarRecord {
	if rec, ok := s.records[playerID]; ok {
		return rec
	}
	rec := &PlayerWarRecord{
		WarID:             s.warID,
		WarNumber:         s.warNumber,
		WarName:           s.warName,
		BattlegroupNumber: s.bgNumber,
	}
	s.records[playerID] = rec
	s.order = append(s.order, playerID)
	return rec
}

// addFight records one fight of the given kind against the scratch record.
func (r *PlayerWarRecord) addFight(kind EncounterKind, deaths int, detail FightDetail) {
	r.Fights++
	r.Deaths += deaths
	switch kind {
	case KindPath:
		r.PathFights++
		r.PathDeaths += deaths
	case KindMiniBoss:
		r.MiniBossFights++
		r.MiniBossDeaths += deaths
	case KindBoss:
		r.BossFights++
		r.BossDeaths += deaths
	}
	r.FightDetails = append(r.FightDetails, detail)
}

// seasonAccumulator owns the per-player season entries, keyed by player id and
// kept in first-touch order so ranking sorts stay deterministic.
type seasonAccumulator struct {
	roster  map[string]domain.Player
	players map[string]*PlayerSeasonStats
	order   []string
}

func newSeasonAccumulator(players []domain.Player) *seasonAccumulator {
	roster := make(map[string]domain.Player, len(players))
	for _, p := range players {
		roster[p.ID] = p
	}
	return &seasonAccumulator{
		roster:  roster,
		players: make(map[string]*PlayerSeasonStats),
	}
}

func (a *seasonAccumulator) upsert(playerID string, bgNumber int) *PlayerSeasonStats {
	if stats, ok := a.players[playerID]; ok {
		return stats
	}
	stats := &PlayerSeasonStats{
		PlayerID: playerID,
		Name:     UnknownPlayerName,
		BGNumber: bgNumber - 1,
	}
	if p, ok := a.roster[playerID]; ok {
		stats.Name = p.Name
		if p.Battlegroup != domain.BattlegroupUnassigned {
			stats.BGNumber = p.Battlegroup
		}
	}
	a.players[playerID] = stats
	a.order = append(a.order, playerID)
	return stats
}

// flush finalizes every scratch record of a finished battlegroup and merges it
// into the owning player's war history.
func (a *seasonAccumulator) flush(s *warScratch) {
	for _, playerID := range s.order {
		rec := s.records[playerID]
		rec.SoloRate = soloRate(rec.Fights, rec.Deaths)
		stats := a.upsert(playerID, s.bgNumber)
		stats.WarHistory = append(stats.WarHistory, *rec)
	}
}

// nodeHeatAccumulator owns the per-slot fight/death counters, keyed by the
// composite NodeKey and kept in first-visit order.
type nodeHeatAccumulator struct {
	entries map[NodeKey]*NodeHeatEntry
	order   []NodeKey
}

func newNodeHeatAccumulator() *nodeHeatAccumulator {
	return &nodeHeatAccumulator{entries: make(map[NodeKey]*NodeHeatEntry)}
}

// visit creates the slot's entry if this is the first time any war touches it.
func (a *nodeHeatAccumulator) visit(key NodeKey, label string) *NodeHeatEntry {
	if e, ok := a.entries[key]; ok {
		return e
	}
	e := &NodeHeatEntry{Key: key, Label: label}
	a.entries[key] = e
	a.order = append(a.order, key)
	return e
}

// recordPrimary counts a primary fight against the slot. Backup fights never
// reach here, matching the battlegroup totals.
func (a *nodeHeatAccumulator) recordPrimary(key NodeKey, label string, deaths int) {
	e := a.visit(key, label)
	e.Fights++
	e.Deaths += deaths
}

// groupAccumulator owns the three battlegroups' official fight/death tallies.
type groupAccumulator struct {
	totals [domain.BattlegroupCount]BattlegroupTotals
}

func newGroupAccumulator() *groupAccumulator {
	var g groupAccumulator
	for i := range g.totals {
		g.totals[i].Number = i + 1
	}
	return &g
}

// addPrimary counts one primary fight for the battlegroup. Out-of-range
// numbers are ignored rather than corrupting a neighbor's tally.
func (g *groupAccumulator) addPrimary(bgNumber, deaths int) {
	if bgNumber < 1 || bgNumber > domain.BattlegroupCount {
		return
	}
	g.totals[bgNumber-1].Fights++
	g.totals[bgNumber-1].Deaths += deaths
}

// distributionAccumulator buckets primary deaths by encounter category.
type distributionAccumulator struct {
	dist DeathDistribution
}

func (d *distributionAccumulator) add(kind EncounterKind, deaths int) {
	switch kind {
	case KindPath:
		d.dist.Path += deaths
	case KindMiniBoss:
		d.dist.MiniBoss += deaths
	case KindBoss:
		d.dist.Boss += deaths
	}
}
