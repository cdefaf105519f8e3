package db

import (
	"context"
	"database/sql"
	"time"
)

const countPlayers = `-- name: CountPlayers :one
SELECT COUNT(*) FROM players
`

func (q *Queries) CountPlayers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPlayers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getPlayerByNameTag = `-- name: GetPlayerByNameTag :one
SELECT id, puuid, name, tag, last_synced_at, created_at, updated_at
FROM players
WHERE name_key = ? AND tag_key = ?
`

type GetPlayerByNameTagParams struct {
	NameKey string
	TagKey  string
}

func (q *Queries) GetPlayerByNameTag(ctx context.Context, arg GetPlayerByNameTagParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByNameTag, arg.NameKey, arg.TagKey)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Puuid,
		&i.Name,
		&i.Tag,
		&i.LastSyncedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPlayerByPuuid = `-- name: GetPlayerByPuuid :one
SELECT id, puuid, name, tag, last_synced_at, created_at, updated_at
FROM players
WHERE puuid = ?
`

func (q *Queries) GetPlayerByPuuid(ctx context.Context, puuid string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByPuuid, puuid)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Puuid,
		&i.Name,
		&i.Tag,
		&i.LastSyncedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertPlayer = `-- name: UpsertPlayer :exec
INSERT INTO players (id, puuid, name, tag, name_key, tag_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (puuid) DO UPDATE SET
    name = excluded.name,
    tag = excluded.tag,
    name_key = excluded.name_key,
    tag_key = excluded.tag_key,
    updated_at = excluded.updated_at
`

type UpsertPlayerParams struct {
	ID        string
	Puuid     string
	Name      string
	Tag       string
	NameKey   string
	TagKey    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayer,
		arg.ID,
		arg.Puuid,
		arg.Name,
		arg.Tag,
		arg.NameKey,
		arg.TagKey,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updatePlayerLastSyncedAt = `-- name: UpdatePlayerLastSyncedAt :exec
UPDATE players
SET last_synced_at = ?, updated_at = ?
WHERE id = ?
`

type UpdatePlayerLastSyncedAtParams struct {
	LastSyncedAt sql.NullTime
	UpdatedAt    time.Time
	ID           string
}

func (q *Queries) UpdatePlayerLastSyncedAt(ctx context.Context, arg UpdatePlayerLastSyncedAtParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerLastSyncedAt, arg.LastSyncedAt, arg.UpdatedAt, arg.ID)
	return err
}
