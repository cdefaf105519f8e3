package repository

import (
	"context"
	"fmt"
	"time"
	"valorant-sync/internal/db"
	"valorant-sync/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewMatchRepository(queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *MatchRepository) UpsertMatch(ctx context.Context, match *domain.Match) error {
	now := time.Now().UTC()
	err := r.queries.UpsertMatch(ctx, db.UpsertMatchParams{
		ID:         match.ID,
		Map:        toNullString(match.Map),
		Mode:       toNullString(match.Mode),
		Region:     match.Region,
		StartedAt:  toNullTime(match.StartedAt),
		RoundsRed:  toNullInt(match.RoundsRed),
		RoundsBlue: toNullInt(match.RoundsBlue),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", match.ID, err)
	}
	return nil
}

func (r *MatchRepository) UpsertPlayerMatch(ctx context.Context, pm *domain.PlayerMatch) error {
	now := time.Now().UTC()
	err := r.queries.UpsertPlayerMatch(ctx, db.UpsertPlayerMatchParams{
		MatchID:   pm.MatchID,
		PlayerID:  pm.PlayerID,
		Team:      toNullString(pm.Team),
		Kills:     toNullInt(pm.Kills),
		Deaths:    toNullInt(pm.Deaths),
		Assists:   toNullInt(pm.Assists),
		Score:     toNullInt(pm.Score),
		Damage:    toNullInt(pm.Damage),
		Headshots: toNullInt(pm.Headshots),
		Bodyshots: toNullInt(pm.Bodyshots),
		Legshots:  toNullInt(pm.Legshots),
		AgentIcon: toNullString(pm.AgentIcon),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert player match %s/%s: %w", pm.MatchID, pm.PlayerID, err)
	}
	return nil
}

// ListForPlayer returns the most recent matches first; matches without a start
// time come last, ties ordered by match id.
func (r *MatchRepository) ListForPlayer(ctx context.Context, playerID string, limit int) ([]domain.PlayerMatchWithMatch, error) {
	rows, err := r.queries.ListPlayerMatches(ctx, db.ListPlayerMatchesParams{
		PlayerID: playerID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for player %s: %w", playerID, err)
	}

	results := make([]domain.PlayerMatchWithMatch, len(rows))
	for i, row := range rows {
		results[i] = domain.PlayerMatchWithMatch{
			Match: domain.Match{
				ID:         row.MatchID,
				Map:        fromNullString(row.Map),
				Mode:       fromNullString(row.Mode),
				Region:     row.Region,
				StartedAt:  fromNullTime(row.StartedAt),
				RoundsRed:  fromNullInt(row.RoundsRed),
				RoundsBlue: fromNullInt(row.RoundsBlue),
				CreatedAt:  row.MatchCreatedAt,
				UpdatedAt:  row.MatchUpdatedAt,
			},
			PlayerStats: domain.PlayerMatch{
				MatchID:   row.MatchID,
				PlayerID:  row.PlayerID,
				Team:      fromNullString(row.Team),
				Kills:     fromNullInt(row.Kills),
				Deaths:    fromNullInt(row.Deaths),
				Assists:   fromNullInt(row.Assists),
				Score:     fromNullInt(row.Score),
				Damage:    fromNullInt(row.Damage),
				Headshots: fromNullInt(row.Headshots),
				Bodyshots: fromNullInt(row.Bodyshots),
				Legshots:  fromNullInt(row.Legshots),
				AgentIcon: fromNullString(row.AgentIcon),
				CreatedAt: row.PmCreatedAt,
				UpdatedAt: row.PmUpdatedAt,
			},
		}
	}
	return results, nil
}

func (r *MatchRepository) CountMatches(ctx context.Context) (int64, error) {
	return r.queries.CountMatches(ctx)
}

func (r *MatchRepository) CountPlayerMatches(ctx context.Context) (int64, error) {
	return r.queries.CountPlayerMatches(ctx)
}
