package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	TrackerServiceName        = "valorant.v1.ValorantTracker"
	ValorantTrackerPath       = "/" + TrackerServiceName + "/"
	SyncPlayerProcedure       = ValorantTrackerPath + "SyncPlayer"
	GetStoredMatchesProcedure = ValorantTrackerPath + "GetStoredMatches"
)

// Error metadata carrying the rows committed before a failed sync aborted.
const (
	MatchesUpsertedMeta       = "Matches-Upserted"
	PlayerMatchesUpsertedMeta = "Player-Matches-Upserted"
)

type SyncPlayerRequest struct {
	Region string `json:"region"`
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Size   int32  `json:"size"`
}

type GetStoredMatchesRequest struct {
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Limit int32  `json:"limit"`
}

type TrackerServer struct {
	syncSvc    *service.SyncService
	listingSvc *service.ListingService
	logger     zerolog.Logger
}

func NewTrackerServer(syncSvc *service.SyncService, listingSvc *service.ListingService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{syncSvc: syncSvc, listingSvc: listingSvc, logger: logger}
}

// NewTrackerHandler mounts both procedures under ValorantTrackerPath.
func NewTrackerHandler(s *TrackerServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SyncPlayerProcedure, connect.NewUnaryHandler(SyncPlayerProcedure, s.SyncPlayer, opts...))
	mux.Handle(GetStoredMatchesProcedure, connect.NewUnaryHandler(GetStoredMatchesProcedure, s.GetStoredMatches, opts...))
	return ValorantTrackerPath, mux
}

func (s *TrackerServer) SyncPlayer(ctx context.Context, req *connect.Request[SyncPlayerRequest]) (*connect.Response[service.SyncResult], error) {
	start := time.Now()
	res, err := s.syncSvc.Sync(ctx, service.SyncRequest{
		Region: req.Msg.Region,
		Name:   req.Msg.Name,
		Tag:    req.Msg.Tag,
		Size:   int(req.Msg.Size),
	})
	if err != nil {
		cerr := toConnectError(err)
		if res != nil {
			cerr.Meta().Set(MatchesUpsertedMeta, strconv.Itoa(res.MatchesUpserted))
			cerr.Meta().Set(PlayerMatchesUpsertedMeta, strconv.Itoa(res.PlayerMatchesUpserted))
		}
		return nil, cerr
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("SyncPlayer")
	return connect.NewResponse(res), nil
}

func (s *TrackerServer) GetStoredMatches(ctx context.Context, req *connect.Request[GetStoredMatchesRequest]) (*connect.Response[service.Listing], error) {
	listing, err := s.listingSvc.Matches(ctx, req.Msg.Name, req.Msg.Tag, int(req.Msg.Limit))
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := connect.NewResponse(listing)
	resp.Header().Set("X-Cache", listing.Cache)
	return resp, nil
}

func toConnectError(err error) *connect.Error {
	var upErr *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &upErr):
		return connect.NewError(upstreamCode(upErr.StatusCode), err)
	case errors.Is(err, api.ErrMalformedPayload):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func upstreamCode(status int) connect.Code {
	switch {
	case status == http.StatusTooManyRequests:
		return connect.CodeResourceExhausted
	case status == http.StatusNotFound:
		return connect.CodeNotFound
	case status == http.StatusUnauthorized:
		return connect.CodeUnauthenticated
	case status == http.StatusForbidden:
		return connect.CodePermissionDenied
	case status == http.StatusBadRequest:
		return connect.CodeInvalidArgument
	case status >= 500:
		return connect.CodeUnavailable
	default:
		return connect.CodeUnknown
	}
}
