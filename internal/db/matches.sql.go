package db

import (
	"context"
	"database/sql"
	"time"
)

const countMatches = `-- name: CountMatches :one
SELECT COUNT(*) FROM matches
`

func (q *Queries) CountMatches(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countPlayerMatches = `-- name: CountPlayerMatches :one
SELECT COUNT(*) FROM player_matches
`

func (q *Queries) CountPlayerMatches(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPlayerMatches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const upsertMatch = `-- name: UpsertMatch :exec
INSERT INTO matches (id, map, mode, region, started_at, rounds_red, rounds_blue, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    map = excluded.map,
    mode = excluded.mode,
    region = excluded.region,
    started_at = excluded.started_at,
    rounds_red = excluded.rounds_red,
    rounds_blue = excluded.rounds_blue,
    updated_at = excluded.updated_at
`

type UpsertMatchParams struct {
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

func (q *Queries) UpsertMatch(ctx context.Context, arg UpsertMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertMatch,
		arg.ID,
		arg.Map,
		arg.Mode,
		arg.Region,
		arg.StartedAt,
		arg.RoundsRed,
		arg.RoundsBlue,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const upsertPlayerMatch = `-- name: UpsertPlayerMatch :exec
INSERT INTO player_matches (
    match_id, player_id, team, kills, deaths, assists, score, damage,
    headshots, bodyshots, legshots, agent_icon, created_at, updated_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id, player_id) DO UPDATE SET
    team = excluded.team,
    kills = excluded.kills,
    deaths = excluded.deaths,
    assists = excluded.assists,
    score = excluded.score,
    damage = excluded.damage,
    headshots = excluded.headshots,
    bodyshots = excluded.bodyshots,
    legshots = excluded.legshots,
    agent_icon = excluded.agent_icon,
    updated_at = excluded.updated_at
`

type UpsertPlayerMatchParams struct {
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

func (q *Queries) UpsertPlayerMatch(ctx context.Context, arg UpsertPlayerMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayerMatch,
		arg.MatchID,
		arg.PlayerID,
		arg.Team,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.Score,
		arg.Damage,
		arg.Headshots,
		arg.Bodyshots,
		arg.Legshots,
		arg.AgentIcon,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const listPlayerMatches = `-- name: ListPlayerMatches :many
SELECT
    m.id, m.map, m.mode, m.region, m.started_at, m.rounds_red, m.rounds_blue,
    m.created_at, m.updated_at,
    pm.player_id, pm.team, pm.kills, pm.deaths, pm.assists, pm.score, pm.damage,
    pm.headshots, pm.bodyshots, pm.legshots, pm.agent_icon,
    pm.created_at, pm.updated_at
FROM player_matches pm
JOIN matches m ON m.id = pm.match_id
WHERE pm.player_id = ?
ORDER BY m.started_at IS NULL, m.started_at DESC, m.id ASC
LIMIT ?
`

type ListPlayerMatchesParams struct {
	PlayerID string
	Limit    int64
}

type ListPlayerMatchesRow struct {
	MatchID        string
	Map            sql.NullString
	Mode           sql.NullString
	Region         string
	StartedAt      sql.NullTime
	RoundsRed      sql.NullInt64
	RoundsBlue     sql.NullInt64
	MatchCreatedAt time.Time
	MatchUpdatedAt time.Time
	PlayerID       string
	Team           sql.NullString
	Kills          sql.NullInt64
	Deaths         sql.NullInt64
	Assists        sql.NullInt64
	Score          sql.NullInt64
	Damage         sql.NullInt64
	Headshots      sql.NullInt64
	Bodyshots      sql.NullInt64
	Legshots       sql.NullInt64
	AgentIcon      sql.NullString
	PmCreatedAt    time.Time
	PmUpdatedAt    time.Time
}

func (q *Queries) ListPlayerMatches(ctx context.Context, arg ListPlayerMatchesParams) ([]ListPlayerMatchesRow, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerMatches, arg.PlayerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPlayerMatchesRow
	for rows.Next() {
		var i ListPlayerMatchesRow
		if err := rows.Scan(
			&i.MatchID,
			&i.Map,
			&i.Mode,
			&i.Region,
			&i.StartedAt,
			&i.RoundsRed,
			&i.RoundsBlue,
			&i.MatchCreatedAt,
			&i.MatchUpdatedAt,
			&i.PlayerID,
			&i.Team,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.Score,
			&i.Damage,
			&i.Headshots,
			&i.Bodyshots,
			&i.Legshots,
			&i.AgentIcon,
			&i.PmCreatedAt,
			&i.PmUpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
