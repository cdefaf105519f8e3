package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/cache"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"

	"github.com/rs/zerolog"
)

type SyncRequest struct {
	Region string
	Name   string
	Tag    string
	Size   int
}

type SyncResult struct {
	Skipped               bool       `json:"skipped"`
	Player                string     `json:"player"`
	Puuid                 string     `json:"puuid,omitempty"`
	MatchesUpserted       int        `json:"matchesUpserted"`
	PlayerMatchesUpserted int        `json:"playerMatchesUpserted"`
	LastSyncedAt          *time.Time `json:"lastSyncedAt,omitempty"`
	Message               string     `json:"message,omitempty"`
}

type SyncService struct {
	upstream      Upstream
	players       PlayerStore
	matches       MatchStore
	cache         *cache.Store
	cooldown      time.Duration
	defaultRegion string
	now           func() time.Time
	logger        zerolog.Logger
}

func NewSyncService(upstream Upstream, players PlayerStore, matches MatchStore, store *cache.Store, cfg *config.Config, logger zerolog.Logger) *SyncService {
	return &SyncService{
		upstream:      upstream,
		players:       players,
		matches:       matches,
		cache:         store,
		cooldown:      cfg.SyncCooldown,
		defaultRegion: cfg.DefaultRegion,
		now:           time.Now,
		logger:        logger,
	}
}

// Sync mirrors the player's recent matches into the store. On a persistence
// failure the returned result still carries the counts committed so far.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	id, err := normalizeIdentity(req.Region, req.Name, req.Tag, s.defaultRegion)
	if err != nil {
		return nil, err
	}
	size := ClampLimit(req.Size, constants.DefaultSyncSize, constants.MaxSyncSize)
	start := time.Now()
	now := s.now()

	logger := s.logger.With().
		Str("player", id.String()).
		Str("region", id.region).
		Int("size", size).
		Logger()

	result := &SyncResult{Player: id.String()}

	existing, err := s.players.GetByName(ctx, id.name, id.tag)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error().Err(err).Msg("failed to look up player")
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}
	if existing != nil && existing.LastSyncedAt != nil {
		since := now.Sub(*existing.LastSyncedAt)
		if since < s.cooldown {
			logger.Info().
				Time("last_synced_at", *existing.LastSyncedAt).
				Dur("since", since).
				Dur("cooldown", s.cooldown).
				Msg("player synced recently, skipping")
			result.Skipped = true
			result.Puuid = existing.Puuid
			result.LastSyncedAt = existing.LastSyncedAt
			return result, nil
		}
	}

	records, err := s.fetchMatches(ctx, logger, id, size)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		logger.Info().Msg("no matches found")
		result.Message = "No matches found"
		return result, nil
	}

	entry := records[0].FindByNameTag(id.name, id.tag)
	if entry == nil || entry.Puuid == "" {
		logger.Error().Str("match_id", records[0].Metadata.MatchID).Msg("player missing from own match roster")
		return nil, ErrPuuidNotResolved
	}

	previous, err := s.players.GetByPuuid(ctx, entry.Puuid)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error().Err(err).Str("puuid", entry.Puuid).Msg("failed to look up player by puuid")
		return result, fmt.Errorf("failed to look up player: %w", err)
	}

	player, err := s.players.Upsert(ctx, entry.Puuid, entry.Name, entry.Tag)
	if err != nil {
		logger.Error().Err(err).Str("puuid", entry.Puuid).Msg("failed to upsert player")
		return result, fmt.Errorf("failed to upsert player: %w", err)
	}
	result.Puuid = player.Puuid

	for i := range records {
		m := &records[i]
		matchID := m.Metadata.MatchID
		if matchID == "" {
			logger.Debug().Int("index", i).Msg("match without id, skipping")
			continue
		}

		if err := s.matches.UpsertMatch(ctx, toMatch(m, id.region)); err != nil {
			logger.Error().Err(err).Str("match_id", matchID).Int("matches_upserted", result.MatchesUpserted).Msg("sync aborted")
			return result, fmt.Errorf("sync aborted: %w", err)
		}
		result.MatchesUpserted++

		stats := m.FindByPuuid(player.Puuid)
		if stats == nil {
			logger.Debug().Str("match_id", matchID).Msg("player missing from match roster")
			continue
		}
		if err := s.matches.UpsertPlayerMatch(ctx, toPlayerMatch(matchID, player.ID, stats)); err != nil {
			logger.Error().Err(err).Str("match_id", matchID).Int("player_matches_upserted", result.PlayerMatchesUpserted).Msg("sync aborted")
			return result, fmt.Errorf("sync aborted: %w", err)
		}
		result.PlayerMatchesUpserted++
	}

	if err := s.players.SetLastSyncedAt(ctx, player.ID, now); err != nil {
		logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to stamp last synced at")
		return result, fmt.Errorf("failed to stamp last synced at: %w", err)
	}
	result.LastSyncedAt = &now

	keys := listingKeysFor(id.name, id.tag, player, previous)
	if out := s.cache.Invalidate(ctx, keys...); !out.OK() {
		logger.Warn().Err(out.Err).Str("op", out.Op).Int("keys", out.Keys).Msg("cache invalidation failed")
	}

	logger.Info().
		Str("puuid", player.Puuid).
		Int("matches_upserted", result.MatchesUpserted).
		Int("player_matches_upserted", result.PlayerMatchesUpserted).
		Dur("duration", time.Since(start)).
		Msg("sync completed")
	return result, nil
}

func (s *SyncService) fetchMatches(ctx context.Context, logger zerolog.Logger, id identity, size int) ([]api.MatchRecord, error) {
	resp, err := s.upstream.GetMatches(ctx, id.region, id.name, id.tag, size, constants.DefaultMatchMode)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch matches")
		return nil, upstreamTransportError(err)
	}
	if !resp.OK() {
		logger.Warn().Int("status", resp.StatusCode).Msg("upstream returned error status")
		return nil, &UpstreamError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		}
	}

	records, err := api.DecodeMatches(resp.Body)
	if err != nil {
		logger.Error().Err(err).Msg("failed to decode matches")
		return nil, err
	}
	return records, nil
}

func toMatch(m *api.MatchRecord, region string) *domain.Match {
	match := &domain.Match{
		ID:         m.Metadata.MatchID,
		Map:        m.Metadata.Map,
		Mode:       m.Metadata.Mode,
		Region:     region,
		RoundsRed:  m.Teams.Red.RoundsWon,
		RoundsBlue: m.Teams.Blue.RoundsWon,
	}
	if gs := m.Metadata.GameStart; gs != nil && *gs != 0 {
		startedAt := time.Unix(*gs, 0).UTC()
		match.StartedAt = &startedAt
	}
	return match
}

func toPlayerMatch(matchID, playerID string, p *api.RosterEntry) *domain.PlayerMatch {
	pm := &domain.PlayerMatch{
		MatchID:   matchID,
		PlayerID:  playerID,
		Kills:     p.Stats.Kills,
		Deaths:    p.Stats.Deaths,
		Assists:   p.Stats.Assists,
		Score:     p.Stats.Score,
		Damage:    p.DamageMade,
		Headshots: p.Stats.Headshots,
		Bodyshots: p.Stats.Bodyshots,
		Legshots:  p.Stats.Legshots,
		AgentIcon: p.Assets.Agent.Small,
	}
	if p.Team != nil {
		team := strings.ToLower(*p.Team)
		pm.Team = &team
	}
	return pm
}

// listingKeysFor covers the requested identity, the canonical one and, after a
// rename, the spelling the player was previously stored under.
func listingKeysFor(name, tag string, players ...*domain.Player) []string {
	seen := map[string]bool{repository.IdentityKey(name) + "#" + repository.IdentityKey(tag): true}
	keys := cache.ListingKeys(name, tag)
	for _, p := range players {
		if p == nil {
			continue
		}
		k := repository.IdentityKey(p.Name) + "#" + repository.IdentityKey(p.Tag)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, cache.ListingKeys(p.Name, p.Tag)...)
	}
	return keys
}
