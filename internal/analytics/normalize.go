package analytics

import (
	"alliance-tracker/internal/domain"
)

// normalizeWars returns a copy of the war list with the optional collections
// and fields filled in, so the scan can assume a fully-populated shape instead
// of defaulting at every access. The input is never mutated.
func normalizeWars(wars []domain.War) []domain.War {
	out := make([]domain.War, len(wars))
	for i, war := range wars {
		out[i] = war
		out[i].Battlegroups = normalizeBattlegroups(war.Battlegroups)
	}
	return out
}

func normalizeBattlegroups(bgs []domain.Battlegroup) []domain.Battlegroup {
	out := make([]domain.Battlegroup, len(bgs))
	for i, bg := range bgs {
		out[i] = bg
		if bg.Number < 1 || bg.Number > domain.BattlegroupCount {
			out[i].Number = i + 1
		}
		out[i].Paths = normalizePaths(bg.Paths)
		out[i].MiniBosses = normalizeMiniBosses(bg.MiniBosses)
	}
	return out
}

func normalizePaths(paths []domain.Path) []domain.Path {
	out := make([]domain.Path, len(paths))
	for i, p := range paths {
		out[i] = p
		if p.Section < 1 {
			out[i].Section = 1
		}
		if p.PathNumber < 1 {
			out[i].PathNumber = i + 1
		}
	}
	return out
}

func normalizeMiniBosses(bosses []domain.MiniBoss) []domain.MiniBoss {
	out := make([]domain.MiniBoss, len(bosses))
	for i, mb := range bosses {
		out[i] = mb
		if mb.NodeNumber < 1 {
			out[i].NodeNumber = i + 1
		}
	}
	return out
}
