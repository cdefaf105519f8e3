package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"

	"github.com/valyala/fasthttp"
)

type HDevClient struct {
	baseURL     string
	apiKey      string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RawResponse is an upstream reply kept verbatim so it can be passed through.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewHDevClient(cfg *config.Config) *HDevClient {
	return newHDevClient(cfg.HDevBaseURL, cfg.HDevAPIKey, &fasthttp.Client{
		MaxConnsPerHost:        100,
		ReadTimeout:            constants.ExternalAPITimeout,
		WriteTimeout:           constants.ExternalAPITimeout,
		MaxIdleConnDuration:    1 * time.Minute,
		DisablePathNormalizing: true,
	})
}

func newHDevClient(baseURL, apiKey string, client *fasthttp.Client) *HDevClient {
	return &HDevClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		rateLimit: RateLimitInfo{
			Limit:     90,
			Remaining: 90,
			Reset:     60,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *HDevClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *HDevClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if bucket := string(resp.Header.Peek("X-Ratelimit-Bucket")); bucket != "" {
		c.rateLimit.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *HDevClient) GetMatches(ctx context.Context, region, name, tag string, size int, mode string) (*RawResponse, error) {
	endpoint := fmt.Sprintf("%s/v3/matches/%s/%s/%s?size=%d&mode=%s",
		c.baseURL, escape(region), escape(name), escape(tag), size, url.QueryEscape(mode))
	return c.doRaw(ctx, endpoint)
}

func (c *HDevClient) GetMMRHistory(ctx context.Context, region, name, tag string) (*RawResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/mmr-history/%s/%s/%s", c.baseURL, escape(region), escape(name), escape(tag))
	return c.doRaw(ctx, endpoint)
}

func (c *HDevClient) GetMMR(ctx context.Context, region, name, tag string) (*RawResponse, error) {
	endpoint := fmt.Sprintf("%s/v2/mmr/%s/%s/%s", c.baseURL, escape(region), escape(name), escape(tag))
	return c.doRaw(ctx, endpoint)
}

func escape(segment string) string {
	return url.PathEscape(segment)
}

// doRaw returns any upstream status as a RawResponse; only transport failures are errors.
func (c *HDevClient) doRaw(ctx context.Context, endpoint string) (*RawResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", c.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("upstream request failed: %w", err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("upstream request failed: %w", err)
		}
	}

	c.updateRateLimit(resp)

	contentType := string(resp.Header.ContentType())
	if contentType == "" {
		contentType = "application/json"
	}

	return &RawResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		Body:        append([]byte(nil), resp.Body()...),
	}, nil
}
