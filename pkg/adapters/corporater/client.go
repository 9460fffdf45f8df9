// Package corporater talks to the ClickPath endpoint exposed by the host
// application. Authentication rides on the session cookies of the user.
package corporater

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/schema"
)

// APIPath is the ClickPath endpoint relative to the host base URL.
const APIPath = "/CorpoWebserver/api/clickpath/v1"

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 10 * time.Second

// Client implements ports.TourSource and ports.ProgressSink against the host API.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithTimeout sets the request timeout of the default HTTP client. It has
// no effect on a client passed with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the host at baseURL (scheme and host, no path).
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Jar: jar, Timeout: c.timeout}
	}
	return c, nil
}

// Endpoint returns the absolute ClickPath endpoint URL.
func (c *Client) Endpoint() string {
	return c.baseURL + APIPath
}

// SetCookies seeds the session, typically with cookies read from a browser.
func (c *Client) SetCookies(cookies []*http.Cookie) error {
	if c.client.Jar == nil {
		return fmt.Errorf("http client has no cookie jar")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	c.client.Jar.SetCookies(u, cookies)
	return nil
}

// record is the flat row returned by the host. Tours arrive as a string of
// comma-joined JSON objects.
type record struct {
	Success bool   `json:"success"`
	User    string `json:"user"`
	Tours   string `json:"tours"`

	Primary      string `json:"primary"`
	PrimaryDark  string `json:"primaryDark"`
	PrimaryLight string `json:"primaryLight"`
	Background   string `json:"background"`
	Text         string `json:"text"`
	TextMuted    string `json:"textMuted"`
	SuccessColor string `json:"successColor"`
	Warning      string `json:"warning"`

	EnableAutoStart  any `json:"enableAutoStart"`
	EnableHelpButton any `json:"enableHelpButton"`
}

// Fetch loads tours, colors and feature flags from the host.
func (c *Client) Fetch(ctx context.Context) (*domain.Catalog, error) {
	body, err := c.do(ctx, http.MethodGet, c.Endpoint(), nil)
	if err != nil {
		return nil, err
	}

	rec, err := decodeRecord(body)
	if err != nil {
		return nil, err
	}

	cat := &domain.Catalog{
		Tours:  c.parseTours(rec.Tours),
		User:   rec.User,
		Origin: domain.OriginRemote,
		Colors: &domain.ThemeColors{
			Primary:      rec.Primary,
			PrimaryDark:  rec.PrimaryDark,
			PrimaryLight: rec.PrimaryLight,
			Background:   rec.Background,
			Text:         rec.Text,
			TextMuted:    rec.TextMuted,
			Success:      rec.SuccessColor,
			Warning:      rec.Warning,
		},
		Features: &domain.Features{
			EnableAutoStart:  rec.EnableAutoStart == true,
			EnableHelpButton: rec.EnableHelpButton == true,
		},
	}
	c.logger.Debug("fetched catalog", "user", rec.User, "tours", len(cat.Tours))
	return cat, nil
}

// decodeRecord accepts the array form the host uses as well as a bare object.
func decodeRecord(body []byte) (*record, error) {
	trimmed := bytes.TrimSpace(body)
	var rec record
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []record
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrUnavailable, err)
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%w: empty response", domain.ErrUnavailable)
		}
		rec = recs[0]
	} else if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrUnavailable, err)
	}
	if !rec.Success {
		return nil, fmt.Errorf("%w: invalid api response", domain.ErrUnavailable)
	}
	return &rec, nil
}

// parseTours splits the joined tours string. Entries that are not objects
// with an id are ignored; the rest are validated and malformed ones dropped.
func (c *Client) parseTours(joined string) []domain.TourDefinition {
	if strings.TrimSpace(joined) == "" {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte("["+joined+"]"), &raws); err != nil {
		c.logger.Warn("failed to parse tours", "error", err)
		return nil
	}

	candidates := raws[:0]
	for _, raw := range raws {
		var probe map[string]any
		if json.Unmarshal(raw, &probe) != nil {
			continue
		}
		if _, ok := probe["id"]; ok {
			candidates = append(candidates, raw)
		}
	}

	tours, err := schema.DecodeTours(candidates)
	for _, verr := range schema.ValidationErrors(err) {
		c.logger.Warn("dropped malformed tour", "error", verr)
	}
	return tours
}

type progressRequest struct {
	TourID          string     `json:"tourId"`
	Status          string     `json:"status"`
	CurrentStepID   string     `json:"currentStepId,omitempty"`
	PercentComplete float64    `json:"percentComplete"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Version         string     `json:"version,omitempty"`
}

// Report posts a progress record to the host.
func (c *Client) Report(ctx context.Context, p domain.TourProgress) error {
	payload, err := json.Marshal(progressRequest{
		TourID:          p.TourID,
		Status:          string(p.Status),
		CurrentStepID:   p.CurrentStepID,
		PercentComplete: p.PercentComplete,
		CompletedAt:     p.CompletedAt,
		Version:         p.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, c.Endpoint()+"/progress", payload)
	return err
}

// Status probes whether the endpoint is reachable and the session accepted.
func (c *Client) Status(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.Endpoint()+"/status", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrEndpointNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}
