package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"valorant-sync/internal/db"
	"valorant-sync/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type PlayerRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewPlayerRepository(queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		logger:  logger,
	}
}

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:           p.ID,
		Puuid:        p.Puuid,
		Name:         p.Name,
		Tag:          p.Tag,
		LastSyncedAt: fromNullTime(p.LastSyncedAt),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// IdentityKey is the case-folded form players are looked up by.
func IdentityKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetByName matches name and tag case-insensitively, including non-ASCII
// letters. Returns ErrNotFound when absent.
func (r *PlayerRepository) GetByName(ctx context.Context, name, tag string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByNameTag(ctx, db.GetPlayerByNameTagParams{
		NameKey: IdentityKey(name),
		TagKey:  IdentityKey(tag),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s#%s: %w", name, tag, err)
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) GetByPuuid(ctx context.Context, puuid string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByPuuid(ctx, puuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", puuid, err)
	}
	return toDomainPlayer(player), nil
}

// Upsert creates the player keyed by puuid or refreshes its name and tag.
// The internal id is assigned once and kept across renames.
func (r *PlayerRepository) Upsert(ctx context.Context, puuid, name, tag string) (*domain.Player, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now().UTC()
	err = r.queries.UpsertPlayer(ctx, db.UpsertPlayerParams{
		ID:        id,
		Puuid:     puuid,
		Name:      name,
		Tag:       tag,
		NameKey:   IdentityKey(name),
		TagKey:    IdentityKey(tag),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player %s: %w", puuid, err)
	}

	return r.GetByPuuid(ctx, puuid)
}

func (r *PlayerRepository) SetLastSyncedAt(ctx context.Context, playerID string, lastSyncedAt time.Time) error {
	r.logger.Debug().
		Str("player_id", playerID).
		Time("last_synced_at", lastSyncedAt).
		Msg("setting last synced at")

	err := r.queries.UpdatePlayerLastSyncedAt(ctx, db.UpdatePlayerLastSyncedAtParams{
		LastSyncedAt: sql.NullTime{Time: lastSyncedAt.UTC(), Valid: true},
		UpdatedAt:    time.Now().UTC(),
		ID:           playerID,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to set last synced at")
		return fmt.Errorf("failed to set last synced at: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountPlayers(ctx)
}
