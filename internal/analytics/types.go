package analytics

import (
	"alliance-tracker/internal/domain"
)

// EncounterKind is the encounter category a fight happened on.
type EncounterKind string

const (
	KindPath     EncounterKind = "path"
	KindMiniBoss EncounterKind = "miniboss"
	KindBoss     EncounterKind = "boss"
)

// UnknownPlayerName is used when a fight references an id that is not in the
// roster. The fight still counts; only the display name is missing.
const UnknownPlayerName = "Unknown"

// HardestNodeLimit caps the hardest-nodes ranking.
const HardestNodeLimit = 10

// FightDetail is one fight a player took in one war, tagged with where it
// happened and how it went.
type FightDetail struct {
	WarNumber   int           `json:"warNumber"`
	NodeLabel   string        `json:"nodeLabel"`
	Kind        EncounterKind `json:"kind"`
	Battlegroup int           `json:"battlegroup"`
	Deaths      int           `json:"deaths"`
	WasBackup   bool          `json:"wasBackup"`
	NoShow      bool          `json:"noShow"`
}

// PlayerWarRecord is one player's breakdown for one war. A record exists only
// if the player took at least one fight in that war.
type PlayerWarRecord struct {
	WarID             string `json:"warId"`
	WarNumber         int    `json:"warNumber"`
	WarName           string `json:"warName"`
	BattlegroupNumber int    `json:"battlegroupNumber"` // 1-3

	Fights         int `json:"fights"`
	Deaths         int `json:"deaths"`
	PathFights     int `json:"pathFights"`
	PathDeaths     int `json:"pathDeaths"`
	MiniBossFights int `json:"miniBossFights"`
	MiniBossDeaths int `json:"miniBossDeaths"`
	BossFights     int `json:"bossFights"`
	BossDeaths     int `json:"bossDeaths"`

	SoloRate     float64       `json:"soloRate"`
	FightDetails []FightDetail `json:"fightDetails"`
}

// PlayerSeasonStats sums a player's war records across the season.
type PlayerSeasonStats struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	// BGNumber is the zero-based battlegroup index, from the roster when the
	// player is assigned there, otherwise from the first battlegroup the
	// player was seen fighting in.
	BGNumber int `json:"bgNumber"`

	TotalFights    int `json:"totalFights"`
	TotalDeaths    int `json:"totalDeaths"`
	PathFights     int `json:"pathFights"`
	PathDeaths     int `json:"pathDeaths"`
	MiniBossFights int `json:"miniBossFights"`
	MiniBossDeaths int `json:"miniBossDeaths"`
	BossFights     int `json:"bossFights"`
	BossDeaths     int `json:"bossDeaths"`

	OverallSoloRate float64           `json:"overallSoloRate"`
	WarHistory      []PlayerWarRecord `json:"warHistory"`
}

// NodeKey identifies an encounter slot across wars. Composite on purpose:
// string-composed keys collide silently when label formats drift.
type NodeKey struct {
	Battlegroup int           `json:"battlegroup"`
	Kind        EncounterKind `json:"kind"`
	Section     int           `json:"section"` // paths only, zero otherwise
	Number      int           `json:"number"`  // path number or mini-boss node, zero for boss
}

// NodeHeatEntry tracks how often a slot was fought and how many deaths it
// caused, across every war in the season. Backup fights are excluded, matching
// the battlegroup totals.
type NodeHeatEntry struct {
	Key       NodeKey `json:"key"`
	Label     string  `json:"label"`
	Fights    int     `json:"fights"`
	Deaths    int     `json:"deaths"`
	DeathRate float64 `json:"deathRate"`
}

// BattlegroupTotals is one battlegroup's official tally. Only primary fights
// count here.
type BattlegroupTotals struct {
	Number   int     `json:"number"` // 1-3
	Fights   int     `json:"fights"`
	Deaths   int     `json:"deaths"`
	SoloRate float64 `json:"soloRate"`
}

// DeathDistribution splits season deaths by encounter category.
type DeathDistribution struct {
	Path     int `json:"path"`
	MiniBoss int `json:"miniBoss"`
	Boss     int `json:"boss"`
}

// SeasonAnalytics is the full derived snapshot for one season's war list.
// Rebuilt from scratch on every Compute call; nothing in it is persisted state.
type SeasonAnalytics struct {
	TotalWars int     `json:"totalWars"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Ties      int     `json:"ties"`
	Pending   int     `json:"pending"`
	WinRate   float64 `json:"winRate"`

	TotalFights     int     `json:"totalFights"`
	TotalDeaths     int     `json:"totalDeaths"`
	OverallSoloRate float64 `json:"overallSoloRate"`

	DeathDistribution DeathDistribution `json:"deathDistribution"`

	// PlayerStats is ranked: fewest deaths first, more fights winning ties.
	PlayerStats []PlayerSeasonStats `json:"playerStats"`

	// HardestNodes is the top slots by absolute deaths, then death rate.
	HardestNodes []NodeHeatEntry `json:"hardestNodes"`

	BattlegroupTotals [domain.BattlegroupCount]BattlegroupTotals `json:"battlegroupTotals"`
}
