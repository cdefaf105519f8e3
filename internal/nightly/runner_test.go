package nightly

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type syncServer struct {
	mu       sync.Mutex
	requests []string
}

func startSyncServer(t *testing.T, failFor string) (*fasthttp.Client, *syncServer) {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	s := &syncServer{}
	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			s.mu.Lock()
			s.requests = append(s.requests, string(ctx.Method())+" "+string(ctx.RequestURI()))
			s.mu.Unlock()

			if string(ctx.QueryArgs().Peek("name")) == "Plain" {
				ctx.SetContentType("text/plain")
				ctx.SetBodyString("synced")
				return
			}
			ctx.SetContentType("application/json")
			if string(ctx.QueryArgs().Peek("name")) == failFor {
				ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
				ctx.SetBodyString(`{"errors":["rate limited"]}`)
				return
			}
			ctx.SetBodyString(`{"ok":true}`)
		},
	}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	return &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}, s
}

func TestRunPostsEveryPlayer(t *testing.T) {
	t.Parallel()

	client, srv := startSyncServer(t, "Bad")
	cfg := &Config{
		BaseURL:     "http://sync.test",
		Region:      "eu",
		Size:        5,
		Concurrency: 2,
		Players:     PlayerList{{Name: "TenZ", Tag: "NA1"}, {Name: "Bad", Tag: "X"}, {Name: "Some One", Tag: "EU#"}},
	}

	results, err := newRunner(cfg, client, zerolog.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if !results[0].OK() || results[1].OK() || !results[2].OK() {
		t.Fatalf("results = %+v", results)
	}
	if results[1].Status != fasthttp.StatusTooManyRequests {
		t.Fatalf("failed status = %d, want 429", results[1].Status)
	}

	srv.mu.Lock()
	got := append([]string(nil), srv.requests...)
	srv.mu.Unlock()
	sort.Strings(got)
	want := []string{
		"POST /sync?name=Bad&region=eu&size=5&tag=X",
		"POST /sync?name=Some+One&region=eu&size=5&tag=EU%23",
		"POST /sync?name=TenZ&region=eu&size=5&tag=NA1",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunWithoutPlayers(t *testing.T) {
	t.Parallel()

	client, srv := startSyncServer(t, "")
	results, err := newRunner(&Config{BaseURL: "http://sync.test", Concurrency: 1}, client, zerolog.Nop()).Run(context.Background())
	if err != nil || results != nil {
		t.Fatalf("run = %v, %v; want nil, nil", results, err)
	}
	if len(srv.requests) != 0 {
		t.Fatalf("requests = %v, want none", srv.requests)
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	client, _ := startSyncServer(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &Config{BaseURL: "http://sync.test", Concurrency: 1, Players: PlayerList{{Name: "a", Tag: "b"}}}
	if _, err := newRunner(cfg, client, zerolog.Nop()).Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRunLogsNonJSONResponsesAsText(t *testing.T) {
	t.Parallel()

	client, _ := startSyncServer(t, "")
	var buf bytes.Buffer
	cfg := &Config{BaseURL: "http://sync.test", Concurrency: 1, Players: PlayerList{{Name: "Plain", Tag: "X"}, {Name: "TenZ", Tag: "NA1"}}}

	if _, err := newRunner(cfg, client, zerolog.New(&buf)).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !json.Valid([]byte(line)) {
			t.Fatalf("invalid log line: %s", line)
		}
	}
	if !strings.Contains(buf.String(), `"response":"synced"`) {
		t.Fatalf("plain response not logged as text:\n%s", buf.String())
	}
}
