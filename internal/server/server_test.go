package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/cache"
	"valorant-sync/internal/config"
	"valorant-sync/internal/database"
	"valorant-sync/internal/db"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"
	"valorant-sync/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const rosterMatches = `{"status":200,"data":[
 {"metadata":{"matchid":"m-1","map":"Bind","mode":"Competitive","game_start":1700000300},
  "players":{"all_players":[{"puuid":"puuid-tenz","name":"TenZ","tag":"NA1","team":"Blue","stats":{"kills":18}}]},
  "teams":{"red":{"rounds_won":10},"blue":{"rounds_won":13}}},
 {"metadata":{"matchid":"m-2","map":"Haven","mode":"Competitive","game_start":1700000100},
  "players":{"all_players":[{"puuid":"puuid-other","name":"Other","tag":"EU1","team":"Red"}]},
  "teams":{"red":{"rounds_won":13},"blue":{"rounds_won":5}}}
]}`

type stubUpstream struct {
	resp  *api.RawResponse
	err   error
	calls int
}

func (s *stubUpstream) GetMatches(ctx context.Context, region, name, tag string, size int, mode string) (*api.RawResponse, error) {
	s.calls++
	return s.resp, s.err
}

func (s *stubUpstream) GetMMRHistory(ctx context.Context, region, name, tag string) (*api.RawResponse, error) {
	s.calls++
	return s.resp, s.err
}

func (s *stubUpstream) GetMMR(ctx context.Context, region, name, tag string) (*api.RawResponse, error) {
	s.calls++
	return s.resp, s.err
}

type stubRateLimits struct{ info api.RateLimitInfo }

func (s stubRateLimits) GetRateLimitInfo() api.RateLimitInfo { return s.info }

type testEnv struct {
	upstream *stubUpstream
	redis    *miniredis.Miniredis
	syncSvc  *service.SyncService
	listing  *service.ListingService
	proxy    *service.ProxyService

	players *repository.PlayerRepository
	matches *repository.MatchRepository
	store   *cache.Store
	cfg     *config.Config
}

// brokenMatches fails every UpsertMatch after the first ok calls.
type brokenMatches struct {
	service.MatchStore
	ok    int
	calls int
}

func (m *brokenMatches) UpsertMatch(ctx context.Context, match *domain.Match) error {
	m.calls++
	if m.calls > m.ok {
		return errors.New("disk I/O error")
	}
	return m.MatchStore.UpsertMatch(ctx, match)
}

// failMatchesAfter swaps in a sync service whose match writes fail after ok
// successful upserts.
func (e *testEnv) failMatchesAfter(ok int) {
	broken := &brokenMatches{MatchStore: e.matches, ok: ok}
	e.syncSvc = service.NewSyncService(e.upstream, e.players, broken, e.store, e.cfg, zerolog.Nop())
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		DBPath:        filepath.Join(t.TempDir(), "valorant.db"),
		SyncCooldown:  5 * time.Minute,
		DefaultRegion: "na",
	}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	queries := db.New(sqlDB)
	players := repository.NewPlayerRepository(queries, zerolog.Nop())
	matches := repository.NewMatchRepository(queries, zerolog.Nop())
	store := cache.New(cache.NewRedisBackend(client))
	upstream := &stubUpstream{resp: &api.RawResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(rosterMatches)}}

	return &testEnv{
		upstream: upstream,
		redis:    mr,
		syncSvc:  service.NewSyncService(upstream, players, matches, store, cfg, zerolog.Nop()),
		listing:  service.NewListingService(players, matches, store, zerolog.Nop()),
		proxy:    service.NewProxyService(upstream, store, cfg, zerolog.Nop()),
		players:  players,
		matches:  matches,
		store:    store,
		cfg:      cfg,
	}
}

func (e *testEnv) httpHandler() http.Handler {
	mux := http.NewServeMux()
	NewHTTPServer(e.syncSvc, e.listing, e.proxy, stubRateLimits{info: api.RateLimitInfo{Bucket: "basic", Limit: 30, Remaining: 29}}, zerolog.Nop()).Register(mux)
	return mux
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	e.httpHandler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}
