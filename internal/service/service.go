package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/domain"
)

var (
	ErrMissingIdentity  = errors.New("missing name or tag")
	ErrPuuidNotResolved = errors.New("could not resolve player puuid")
)

// Upstream is the subset of the HenrikDev client the services call.
type Upstream interface {
	GetMatches(ctx context.Context, region, name, tag string, size int, mode string) (*api.RawResponse, error)
	GetMMRHistory(ctx context.Context, region, name, tag string) (*api.RawResponse, error)
	GetMMR(ctx context.Context, region, name, tag string) (*api.RawResponse, error)
}

type PlayerStore interface {
	GetByName(ctx context.Context, name, tag string) (*domain.Player, error)
	GetByPuuid(ctx context.Context, puuid string) (*domain.Player, error)
	Upsert(ctx context.Context, puuid, name, tag string) (*domain.Player, error)
	SetLastSyncedAt(ctx context.Context, playerID string, lastSyncedAt time.Time) error
}

type MatchStore interface {
	UpsertMatch(ctx context.Context, match *domain.Match) error
	UpsertPlayerMatch(ctx context.Context, pm *domain.PlayerMatch) error
	ListForPlayer(ctx context.Context, playerID string, limit int) ([]domain.PlayerMatchWithMatch, error)
}

// UpstreamError carries a failed upstream reply so it can be relayed verbatim.
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream error %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream error %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type identity struct {
	region string
	name   string
	tag    string
}

func (id identity) String() string {
	return id.name + "#" + id.tag
}

func normalizeIdentity(region, name, tag, defaultRegion string) (identity, error) {
	id := identity{
		region: strings.TrimSpace(region),
		name:   strings.TrimSpace(name),
		tag:    strings.TrimSpace(tag),
	}
	if id.name == "" || id.tag == "" {
		return identity{}, ErrMissingIdentity
	}
	if id.region == "" {
		id.region = defaultRegion
	}
	return id, nil
}

// ClampLimit maps non-positive values to def and caps at upper.
func ClampLimit(n, def, upper int) int {
	if n <= 0 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}
