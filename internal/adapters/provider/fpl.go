package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

const (
	bootstrapPath     = "/bootstrap-static/"
	maxBodyBytes      = 16 << 20
	defaultMaxRetries = 3
	defaultTimeout    = 30 * time.Second
	userAgent         = "scout/1.0"

	// now_cost comes in tenths of a million.
	priceDivisor = 10.0

	// The bootstrap endpoint only covers one competition.
	fplLeague = "Premier League"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// bootstrapElement is the subset of one bootstrap-static element the
// dataset needs. Several numerics arrive string-encoded.
type bootstrapElement struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	WebName     string `json:"web_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	TotalPoints int    `json:"total_points"`
	Minutes     int    `json:"minutes"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	Form        string `json:"form"`
	Influence   string `json:"influence"`
	Creativity  string `json:"creativity"`
	Threat      string `json:"threat"`
	ICTIndex    string `json:"ict_index"`
}

type bootstrapResponse struct {
	Elements []bootstrapElement `json:"elements"`
	Teams    []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"teams"`
}

// FPL loads the dataset from the Fantasy Premier League bootstrap endpoint.
// Requests are rate limited and retried with linear backoff; elements that
// fail to map are skipped and counted, never fatal.
type FPL struct {
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	backoffUnit time.Duration
	log         logger.Logger
}

var _ Provider = (*FPL)(nil)

// FPLOption applies a configuration option to the FPL provider.
type FPLOption func(*FPL)

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(c *http.Client) FPLOption {
	return func(p *FPL) {
		if c != nil {
			p.client = c
		}
	}
}

// WithRateLimit bounds outbound request rate.
func WithRateLimit(rps float64, burst int) FPLOption {
	return func(p *FPL) {
		if rps > 0 && burst > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMaxRetries bounds retry attempts after the first request.
func WithMaxRetries(n int) FPLOption {
	return func(p *FPL) {
		if n >= 0 {
			p.maxRetries = n
		}
	}
}

// NewFPL constructs an FPL provider against baseURL.
func NewFPL(baseURL string, opts ...FPLOption) *FPL {
	p := &FPL{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
		maxRetries:  defaultMaxRetries,
		backoffUnit: time.Second,
		log:         logger.Named("provider.fpl"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the source in logs and metrics.
func (p *FPL) Name() string { return "fpl" }

// Fetch downloads the bootstrap payload and maps it to player records.
func (p *FPL) Fetch(ctx context.Context) ([]model.Player, error) {
	start := time.Now()
	players, err := p.fetch(ctx)
	metrics.RecordProviderLatency(p.Name(), float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordProviderRequest(p.Name(), "error")
		return nil, err
	}
	metrics.RecordProviderRequest(p.Name(), "ok")
	return players, nil
}

func (p *FPL) fetch(ctx context.Context) ([]model.Player, error) {
	raw, err := p.fetchBody(ctx, p.baseURL+bootstrapPath)
	if err != nil {
		return nil, err
	}

	var payload bootstrapResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "decode bootstrap payload")
	}

	teamNames := make(map[int]string, len(payload.Teams))
	for _, t := range payload.Teams {
		teamNames[t.ID] = t.Name
	}

	var (
		players []model.Player
		skipped int
	)
	for _, e := range payload.Elements {
		player, err := mapElement(e, teamNames)
		if err != nil {
			p.log.Warn(ctx, "skipping element",
				logger.Int("element", e.ID), logger.Error(err))
			metrics.RecordErrorByComponent("provider_fpl", "bad_element")
			skipped++
			continue
		}
		players = append(players, player)
	}

	if len(players) == 0 {
		return nil, errors.Wrap(ErrNoRecords, p.baseURL+bootstrapPath)
	}
	p.log.Info(ctx, "bootstrap dataset loaded",
		logger.Int("players", len(players)),
		logger.Int("skipped", skipped))
	return players, nil
}

// fetchBody issues one GET with rate limiting and bounded retries.
// 429 and 5xx responses retry with linear backoff; other failures are
// permanent.
func (p *FPL) fetchBody(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = errors.Wrapf(ErrUpstream, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = errors.Wrapf(ErrUpstream, "read response body: %v", readErr)
			case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
				return raw, nil
			case retryableStatus(resp.StatusCode):
				lastErr = errors.Wrapf(ErrUpstream, "status %d", resp.StatusCode)
			default:
				return nil, errors.Wrapf(ErrUpstream, "status %d", resp.StatusCode)
			}
		}

		if attempt == p.maxRetries {
			break
		}
		metrics.RecordProviderRetry(p.Name())
		backoff := time.Duration(attempt+1) * p.backoffUnit
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	p.log.Warn(ctx, "bootstrap request failed",
		logger.String("url", url), logger.Error(lastErr))
	return nil, lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func mapElement(e bootstrapElement, teamNames map[int]string) (model.Player, error) {
	var p model.Player

	position, err := elementPosition(e.ElementType)
	if err != nil {
		return p, err
	}
	team, ok := teamNames[e.Team]
	if !ok {
		return p, fmt.Errorf("unknown team %d", e.Team)
	}

	name := strings.TrimSpace(e.FirstName + " " + e.SecondName)
	if name == "" {
		name = e.WebName
	}
	if name == "" {
		return p, fmt.Errorf("element %d has no name", e.ID)
	}

	p.ID = strconv.Itoa(e.ID)
	p.Name = name
	p.Position = position
	p.Team = team
	p.League = fplLeague
	p.Price = float64(e.NowCost) / priceDivisor
	p.Minutes = e.Minutes
	p.TotalPoints = float64(e.TotalPoints)
	p.Goals = e.GoalsScored
	p.Assists = e.Assists

	if p.Form, err = parseStat("form", e.Form); err != nil {
		return p, err
	}
	if p.Influence, err = parseStat("influence", e.Influence); err != nil {
		return p, err
	}
	if p.Creativity, err = parseStat("creativity", e.Creativity); err != nil {
		return p, err
	}
	if p.Threat, err = parseStat("threat", e.Threat); err != nil {
		return p, err
	}
	if p.ICTIndex, err = parseStat("ict_index", e.ICTIndex); err != nil {
		return p, err
	}
	return p, nil
}

func elementPosition(elementType int) (model.Position, error) {
	switch elementType {
	case 1:
		return model.PositionGoalkeeper, nil
	case 2:
		return model.PositionDefender, nil
	case 3:
		return model.PositionMidfielder, nil
	case 4:
		return model.PositionForward, nil
	}
	return "", fmt.Errorf("unknown element type %d", elementType)
}

// parseStat reads the string-encoded numerics the bootstrap payload uses.
// An empty value reads as zero.
func parseStat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", name, raw)
	}
	return v, nil
}
