package domain

import (
	"time"
)

type Player struct {
	ID           string // nanoid
	Puuid        string
	Name         string
	Tag          string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Optional fields stay nil when the upstream payload omits them.
type Match struct {
	ID         string
	Map        *string
	Mode       *string
	Region     string
	StartedAt  *time.Time
	RoundsRed  *int
	RoundsBlue *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PlayerMatch struct {
	MatchID   string
	PlayerID  string
	Team      *string // "red" or "blue"
	Kills     *int
	Deaths    *int
	Assists   *int
	Score     *int
	Damage    *int
	Headshots *int
	Bodyshots *int
	Legshots  *int
	AgentIcon *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// enriched
type PlayerMatchWithMatch struct {
	Match       Match
	PlayerStats PlayerMatch
}

// PlayerSummary is the player projection served by the listing endpoint.
type PlayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Puuid string `json:"puuid"`
}

// MatchRow is one flattened PlayerMatch joined with its Match.
type MatchRow struct {
	MatchID    string  `json:"matchId"`
	Map        *string `json:"map"`
	Mode       *string `json:"mode"`
	Region     string  `json:"region"`
	StartedAt  *string `json:"startedAt"`
	RoundsRed  *int    `json:"roundsRed"`
	RoundsBlue *int    `json:"roundsBlue"`

	Team      *string `json:"team"`
	Kills     *int    `json:"kills"`
	Deaths    *int    `json:"deaths"`
	Assists   *int    `json:"assists"`
	Score     *int    `json:"score"`
	Damage    *int    `json:"damage"`
	Headshots *int    `json:"headshots"`
	Bodyshots *int    `json:"bodyshots"`
	Legshots  *int    `json:"legshots"`
	AgentIcon *string `json:"agentIcon"`
}
