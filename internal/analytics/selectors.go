package analytics

// PlayerByID returns one player's season stats from an already-computed
// snapshot. No recomputation happens here.
func (s *SeasonAnalytics) PlayerByID(playerID string) (PlayerSeasonStats, bool) {
	for _, stats := range s.PlayerStats {
		if stats.PlayerID == playerID {
			return stats, true
		}
	}
	return PlayerSeasonStats{}, false
}

// FilterByBattlegroup projects the ranked player list down to one battlegroup
// (zero-based index), preserving ranking order.
func (s *SeasonAnalytics) FilterByBattlegroup(bgNumber int) []PlayerSeasonStats {
	out := make([]PlayerSeasonStats, 0, len(s.PlayerStats))
	for _, stats := range s.PlayerStats {
		if stats.BGNumber == bgNumber {
			out = append(out, stats)
		}
	}
	return out
}
