package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"valorant-sync/internal/cache"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"

	"github.com/rs/zerolog"
)

const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

const playerNotSyncedMessage = "Player not found in DB. Run /sync first."

// ListingPayload is exactly what gets cached.
type ListingPayload struct {
	Player  *domain.PlayerSummary `json:"player,omitempty"`
	Data    []domain.MatchRow     `json:"data"`
	Message string                `json:"message,omitempty"`
}

type Listing struct {
	Cache string `json:"cache"`
	ListingPayload
}

type ListingService struct {
	players PlayerStore
	matches MatchStore
	cache   *cache.Store
	logger  zerolog.Logger
}

func NewListingService(players PlayerStore, matches MatchStore, store *cache.Store, logger zerolog.Logger) *ListingService {
	return &ListingService{players: players, matches: matches, cache: store, logger: logger}
}

func (s *ListingService) Matches(ctx context.Context, name, tag string, limit int) (*Listing, error) {
	id, err := normalizeIdentity("", name, tag, "")
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit, constants.DefaultMatchLimit, constants.MaxMatchLimit)
	key := cache.ListingKey(id.name, id.tag, limit)

	var cached ListingPayload
	hit, out := s.cache.GetJSON(ctx, key, &cached)
	if !out.OK() {
		s.logger.Warn().Err(out.Err).Str("key", key).Msg("listing cache get failed")
	}
	if hit {
		s.logger.Debug().Str("key", key).Msg("listing cache hit")
		return &Listing{Cache: CacheHit, ListingPayload: cached}, nil
	}

	payload, ttl, err := s.load(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	if out := s.cache.SetJSON(ctx, key, payload, ttl); !out.OK() {
		s.logger.Warn().Err(out.Err).Str("key", key).Msg("listing cache set failed")
	}
	return &Listing{Cache: CacheMiss, ListingPayload: payload}, nil
}

func (s *ListingService) load(ctx context.Context, id identity, limit int) (ListingPayload, time.Duration, error) {
	player, err := s.players.GetByName(ctx, id.name, id.tag)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Str("player", id.String()).Msg("player not synced yet")
		return ListingPayload{Data: []domain.MatchRow{}, Message: playerNotSyncedMessage}, constants.MatchListingMissTTL, nil
	}
	if err != nil {
		return ListingPayload{}, 0, fmt.Errorf("failed to look up player: %w", err)
	}

	rows, err := s.matches.ListForPlayer(ctx, player.ID, limit)
	if err != nil {
		return ListingPayload{}, 0, err
	}

	data := make([]domain.MatchRow, 0, len(rows))
	for _, r := range rows {
		data = append(data, toMatchRow(r))
	}

	return ListingPayload{
		Player: &domain.PlayerSummary{
			ID:    player.ID,
			Name:  player.Name,
			Tag:   player.Tag,
			Puuid: player.Puuid,
		},
		Data: data,
	}, constants.MatchListingTTL, nil
}

func toMatchRow(r domain.PlayerMatchWithMatch) domain.MatchRow {
	row := domain.MatchRow{
		MatchID:    r.Match.ID,
		Map:        r.Match.Map,
		Mode:       r.Match.Mode,
		Region:     r.Match.Region,
		RoundsRed:  r.Match.RoundsRed,
		RoundsBlue: r.Match.RoundsBlue,
		Team:       r.PlayerStats.Team,
		Kills:      r.PlayerStats.Kills,
		Deaths:     r.PlayerStats.Deaths,
		Assists:    r.PlayerStats.Assists,
		Score:      r.PlayerStats.Score,
		Damage:     r.PlayerStats.Damage,
		Headshots:  r.PlayerStats.Headshots,
		Bodyshots:  r.PlayerStats.Bodyshots,
		Legshots:   r.PlayerStats.Legshots,
		AgentIcon:  r.PlayerStats.AgentIcon,
	}
	if r.Match.StartedAt != nil {
		startedAt := r.Match.StartedAt.UTC().Format("2006-01-02T15:04:05.000Z")
		row.StartedAt = &startedAt
	}
	return row
}
