// Package esgapi reads the ESG platform's REST endpoints that feed the
// dashboards.
package esgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

var (
	ErrNotConfigured = errors.New("esg api url not configured")
	ErrUnauthorized  = errors.New("esg api rejected credentials")
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Unwrap maps 401 onto ErrUnauthorized.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxElapsed time.Duration
	HTTPClient *http.Client
	Logger     *logger.Logger
}

type Client struct {
	base       string
	http       *http.Client
	maxElapsed time.Duration
	log        *logger.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 12 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	maxElapsed := opts.MaxElapsed
	if maxElapsed <= 0 {
		maxElapsed = 20 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{Output: io.Discard})
	}
	return &Client{
		base:       opts.BaseURL,
		http:       hc,
		maxElapsed: maxElapsed,
		log:        log.Component("esgapi"),
	}
}

// Metrics fetches the compliance percentages of one axis.
func (c *Client) Metrics(ctx context.Context, s types.Session, axis vocab.Axis) ([]types.MetricRecord, error) {
	var out []types.MetricRecord
	err := c.get(ctx, s, "/analiseesg/"+axis.Slug(), &out)
	return out, err
}

// GeneralReport fetches one row per indicator with its monthly figures.
func (c *Client) GeneralReport(ctx context.Context, s types.Session) ([]types.IndicatorRecord, error) {
	var out []types.IndicatorRecord
	err := c.get(ctx, s, "/relatoriogeral", &out)
	return out, err
}

// AxisCounts fetches the number of indicators registered per axis.
func (c *Client) AxisCounts(ctx context.Context, s types.Session) ([]types.AxisCount, error) {
	var out []types.AxisCount
	err := c.get(ctx, s, "/relatoriogeral/qtdporeixo", &out)
	return out, err
}

// PlanningReport fetches the (status, month, quantity) observations.
func (c *Client) PlanningReport(ctx context.Context, s types.Session) ([]types.PlanningRecord, error) {
	var out []types.PlanningRecord
	err := c.get(ctx, s, "/relatorioplanejamento", &out)
	return out, err
}

// ActionReport fetches the per-category action plan tallies.
func (c *Client) ActionReport(ctx context.Context, s types.Session) ([]types.ActionPlanRecord, error) {
	var out []types.ActionPlanRecord
	err := c.get(ctx, s, "/relatorioacoes", &out)
	return out, err
}

func (c *Client) endpoint(path string, s types.Session) (string, error) {
	u, err := url.Parse(c.base + path)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	if s.EmpresaID != "" {
		q := u.Query()
		q.Set("empresa_id", s.EmpresaID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// get retries network failures and 5xx answers with exponential backoff.
// 4xx answers and undecodable bodies fail at once.
func (c *Client) get(ctx context.Context, s types.Session, path string, target interface{}) error {
	if c.base == "" {
		return ErrNotConfigured
	}
	endpoint, err := c.endpoint(path, s)
	if err != nil {
		return err
	}
	log := c.log.WithField("endpoint", path)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if s.Token != "" {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 300 {
			serr := &StatusError{Endpoint: path, Code: resp.StatusCode, Body: truncate(string(body), 200)}
			if resp.StatusCode >= 500 {
				return serr
			}
			return backoff.Permanent(serr)
		}
		if len(body) == 0 {
			return backoff.Permanent(fmt.Errorf("%s: empty body", path))
		}
		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: json decode error: %w", path, err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait.String()).Warn("esg api request failed, retrying")
	}

	start := time.Now()
	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		log.WithError(err).Error("esg api request failed")
		return err
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("esg api request done")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
