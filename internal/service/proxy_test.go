package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/cache"
)

func TestOverallIsReadThroughCached(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.upstream.mmr = okResponse([]byte(`{"data":{"current_data":{"elo":1840}}}`))
	proxy := f.proxyService()
	ctx := context.Background()

	first, err := proxy.Overall(ctx, "", "TenZ", "NA1")
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if first.Cache != CacheMiss {
		t.Fatalf("cache = %s, want MISS", first.Cache)
	}
	if ttl := f.redis.TTL(cache.OverallKey("na", "tenz", "na1")); ttl != 60*time.Second {
		t.Fatalf("ttl = %v, want 60s", ttl)
	}

	second, err := proxy.Overall(ctx, "NA", "tenz", "na1")
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if second.Cache != CacheHit {
		t.Fatalf("cache = %s, want HIT", second.Cache)
	}
	if second.StatusCode != 200 || second.ContentType != "application/json" || string(second.Body) != string(first.Body) {
		t.Fatalf("cached response = %d %q %q", second.StatusCode, second.ContentType, second.Body)
	}
	if f.upstream.callCount() != 1 {
		t.Fatalf("upstream calls = %d, want 1", f.upstream.callCount())
	}
}

func TestOverallDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.upstream.mmr = &api.RawResponse{StatusCode: 404, ContentType: "application/json", Body: []byte(`{"errors":[]}`)}
	proxy := f.proxyService()

	for i := 0; i < 2; i++ {
		resp, err := proxy.Overall(context.Background(), "eu", "Nobody", "X")
		if err != nil {
			t.Fatalf("overall: %v", err)
		}
		if resp.StatusCode != 404 || resp.Cache != CacheMiss {
			t.Fatalf("response = %d %s, want 404 MISS", resp.StatusCode, resp.Cache)
		}
	}
	if f.upstream.callCount() != 2 {
		t.Fatalf("upstream calls = %d, want 2", f.upstream.callCount())
	}
}

func TestMatchListDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.upstream.matches = okResponse([]byte(`{"data":[]}`))

	resp, err := f.proxyService().MatchList(context.Background(), "", "TenZ", "NA1", 0, "")
	if err != nil {
		t.Fatalf("match list: %v", err)
	}
	if string(resp.Body) != `{"data":[]}` {
		t.Fatalf("body = %q", resp.Body)
	}
	call := f.upstream.lastCall()
	if call.region != "na" || call.size != 10 || call.mode != "competitive" {
		t.Fatalf("upstream call = %+v", call)
	}

	if _, err := f.proxyService().MatchList(context.Background(), "ap", "TenZ", "NA1", 40, "unrated"); err != nil {
		t.Fatalf("match list: %v", err)
	}
	call = f.upstream.lastCall()
	if call.region != "ap" || call.size != 25 || call.mode != "unrated" {
		t.Fatalf("upstream call = %+v", call)
	}
}

func TestMMRHistoryTransportFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.upstream.err = errors.New("i/o timeout")

	_, err := f.proxyService().MMRHistory(context.Background(), "na", "TenZ", "NA1")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.StatusCode != 502 {
		t.Fatalf("err = %v, want 502 *UpstreamError", err)
	}
	if string(upErr.Body) != `{"error":"Upstream request failed"}` {
		t.Fatalf("body = %q", upErr.Body)
	}
}

func TestProxyRejectsMissingIdentity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.proxyService().MMRHistory(context.Background(), "na", "TenZ", ""); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("err = %v, want ErrMissingIdentity", err)
	}
	if f.upstream.callCount() != 0 {
		t.Fatalf("upstream calls = %d, want 0", f.upstream.callCount())
	}
}
