package domain

import (
	"time"
)

// BattlegroupUnassigned is the roster sentinel for a player who has not been
// placed into one of the three battlegroups.
const BattlegroupUnassigned = -1

// BattlegroupCount is fixed: every war fields exactly three battlegroups.
const BattlegroupCount = 3

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Battlegroup is the zero-based group index (0-2), or BattlegroupUnassigned.
	Battlegroup int       `json:"battlegroup"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// War results recognized in historical data. Anything else is treated as
// ResultPending by the analytics layer.
const (
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultTie     = "tie"
	ResultDraw    = "draw" // legacy spelling of tie, still present in old records
	ResultPending = "pending"
)

type War struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// AllianceResult is one of the result values above. The war's number is
	// not stored; it is the war's 1-based position in the season's ordered list.
	AllianceResult string        `json:"allianceResult"`
	Battlegroups   []Battlegroup `json:"battlegroups"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type Battlegroup struct {
	Number     int        `json:"number"` // 1-3
	Paths      []Path     `json:"paths"`
	MiniBosses []MiniBoss `json:"miniBosses"`
	Boss       Boss       `json:"boss"`
}

// Encounter is the shared shape of every fightable slot in a war. The primary,
// backup and no-show sub-records are independent of each other.
//
// An empty player id means unassigned and never counts as a participant.
type Encounter struct {
	AssignedPlayerID string `json:"assignedPlayerId"`
	PrimaryDeaths    int    `json:"primaryDeaths"`

	BackupHelped   bool   `json:"backupHelped"`
	BackupPlayerID string `json:"backupPlayerId"`
	BackupDeaths   int    `json:"backupDeaths"`

	// PlayerNoShow marks the primary as absent; ReplacedByPlayerID covered the
	// slot. The shape carries no death count for the replacement, so a cover
	// fight always contributes zero deaths.
	PlayerNoShow       bool   `json:"playerNoShow"`
	ReplacedByPlayerID string `json:"replacedByPlayerId"`
}

type Path struct {
	Encounter
	Section    int `json:"section"`    // 1 or 2
	PathNumber int `json:"pathNumber"` // 1-9
}

type MiniBoss struct {
	Encounter
	NodeNumber int    `json:"nodeNumber"`
	Name       string `json:"name"`
}

type Boss struct {
	Encounter
}
