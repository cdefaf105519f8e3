package nightly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
	"valorant-sync/internal/constants"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Player Player
	Status int
	Body   string
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Runner posts one /sync per configured player against a running server.
type Runner struct {
	cfg    *Config
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewRunner(cfg *Config, logger zerolog.Logger) *Runner {
	return newRunner(cfg, &fasthttp.Client{
		ReadTimeout:  constants.NightlySyncTimeout,
		WriteTimeout: constants.NightlySyncTimeout,
	}, logger)
}

func newRunner(cfg *Config, client *fasthttp.Client, logger zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, client: client, logger: logger}
}

// Run never stops on a single player's failure; failures are reported in the
// returned results. The error is non-nil only when ctx ends early.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	players := r.cfg.Players
	if len(players) == 0 {
		r.logger.Info().Msg("no SYNC_PLAYERS configured")
		return nil, nil
	}

	r.logger.Info().
		Int("players", len(players)).
		Str("base_url", r.cfg.BaseURL).
		Int("concurrency", r.cfg.Concurrency).
		Msg("nightly sync starting")

	results := make([]Result, len(players))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, p := range players {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = Result{Player: p, Err: err}
				return err
			}
			results[i] = r.syncOne(gCtx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	r.logger.Info().Int("players", len(players)).Int("failed", failed).Msg("nightly sync finished")
	return results, nil
}

func (r *Runner) syncOne(ctx context.Context, p Player) Result {
	q := url.Values{}
	q.Set("region", r.cfg.Region)
	q.Set("name", p.Name)
	q.Set("tag", p.Tag)
	q.Set("size", strconv.Itoa(r.cfg.Size))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.cfg.BaseURL + "/sync?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodPost)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.NightlySyncTimeout)
	}
	if err := r.client.DoDeadline(req, resp, deadline); err != nil {
		r.logger.Error().Err(err).Str("player", p.String()).Msg("sync request failed")
		return Result{Player: p, Err: fmt.Errorf("%s: %w", p, err)}
	}

	res := Result{Player: p, Status: resp.StatusCode(), Body: string(resp.Body())}
	if !res.OK() {
		r.logger.Error().Str("player", p.String()).Int("status", res.Status).Str("body", res.Body).Msg("sync failed")
		return res
	}
	event := r.logger.Info().Str("player", p.String())
	if json.Valid(resp.Body()) {
		event = event.RawJSON("response", resp.Body())
	} else {
		event = event.Str("response", res.Body)
	}
	event.Msg("player synced")
	return res
}
