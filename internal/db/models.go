package db

import (
	"database/sql"
	"time"
)

type Player struct {
	ID           string
	Puuid        string
	Name         string
	Tag          string
	LastSyncedAt sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Match struct {
	ID         string
	Map        sql.NullString
	Mode       sql.NullString
	Region     string
	StartedAt  sql.NullTime
	RoundsRed  sql.NullInt64
	RoundsBlue sql.NullInt64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PlayerMatch struct {
	MatchID   string
	PlayerID  string
	Team      sql.NullString
	Kills     sql.NullInt64
	Deaths    sql.NullInt64
	Assists   sql.NullInt64
	Score     sql.NullInt64
	Damage    sql.NullInt64
	Headshots sql.NullInt64
	Bodyshots sql.NullInt64
	Legshots  sql.NullInt64
	AgentIcon sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}
