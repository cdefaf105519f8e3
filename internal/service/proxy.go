package service

import (
	"context"
	"net/http"
	"valorant-sync/internal/api"
	"valorant-sync/internal/cache"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"

	"github.com/rs/zerolog"
)

type ProxyResponse struct {
	*api.RawResponse
	Cache string
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// ProxyService relays upstream lookups the dashboard reads directly.
type ProxyService struct {
	upstream      Upstream
	cache         *cache.Store
	defaultRegion string
	logger        zerolog.Logger
}

func NewProxyService(upstream Upstream, store *cache.Store, cfg *config.Config, logger zerolog.Logger) *ProxyService {
	return &ProxyService{upstream: upstream, cache: store, defaultRegion: cfg.DefaultRegion, logger: logger}
}

// Overall is read-through cached; only successful replies are stored.
func (s *ProxyService) Overall(ctx context.Context, region, name, tag string) (*ProxyResponse, error) {
	id, err := normalizeIdentity(region, name, tag, s.defaultRegion)
	if err != nil {
		return nil, err
	}
	key := cache.OverallKey(id.region, id.name, id.tag)

	var cached cachedResponse
	hit, out := s.cache.GetJSON(ctx, key, &cached)
	if !out.OK() {
		s.logger.Warn().Err(out.Err).Str("key", key).Msg("overall cache get failed")
	}
	if hit {
		return &ProxyResponse{
			RawResponse: &api.RawResponse{
				StatusCode:  cached.Status,
				ContentType: cached.ContentType,
				Body:        []byte(cached.Body),
			},
			Cache: CacheHit,
		}, nil
	}

	resp, err := s.upstream.GetMMR(ctx, id.region, id.name, id.tag)
	if err != nil {
		s.logger.Error().Err(err).Str("player", id.String()).Msg("failed to fetch overall rating")
		return nil, upstreamTransportError(err)
	}

	if resp.OK() {
		out := s.cache.SetJSON(ctx, key, cachedResponse{
			Status:      resp.StatusCode,
			ContentType: resp.ContentType,
			Body:        string(resp.Body),
		}, constants.OverallCacheTTL)
		if !out.OK() {
			s.logger.Warn().Err(out.Err).Str("key", key).Msg("overall cache set failed")
		}
	}
	return &ProxyResponse{RawResponse: resp, Cache: CacheMiss}, nil
}

func (s *ProxyService) MatchList(ctx context.Context, region, name, tag string, size int, mode string) (*api.RawResponse, error) {
	id, err := normalizeIdentity(region, name, tag, s.defaultRegion)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = constants.DefaultMatchMode
	}
	size = ClampLimit(size, constants.DefaultSyncSize, constants.MaxSyncSize)

	resp, err := s.upstream.GetMatches(ctx, id.region, id.name, id.tag, size, mode)
	if err != nil {
		s.logger.Error().Err(err).Str("player", id.String()).Msg("failed to fetch matches")
		return nil, upstreamTransportError(err)
	}
	s.logger.Debug().Int("status", resp.StatusCode).Str("content_type", resp.ContentType).Msg("upstream matches")
	return resp, nil
}

func (s *ProxyService) MMRHistory(ctx context.Context, region, name, tag string) (*api.RawResponse, error) {
	id, err := normalizeIdentity(region, name, tag, s.defaultRegion)
	if err != nil {
		return nil, err
	}

	resp, err := s.upstream.GetMMRHistory(ctx, id.region, id.name, id.tag)
	if err != nil {
		s.logger.Error().Err(err).Str("player", id.String()).Msg("failed to fetch mmr history")
		return nil, upstreamTransportError(err)
	}
	s.logger.Debug().Int("status", resp.StatusCode).Str("content_type", resp.ContentType).Msg("upstream mmr history")
	return resp, nil
}

func upstreamTransportError(err error) *UpstreamError {
	return &UpstreamError{
		StatusCode:  http.StatusBadGateway,
		ContentType: "application/json",
		Body:        []byte(`{"error":"Upstream request failed"}`),
		Err:         err,
	}
}
