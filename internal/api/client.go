package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Designer defines the design-service operations the pipeline consumes.
// This interface is implemented by *Client and can be stubbed in tests.
type Designer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)
	Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error)
	RenderPerspective(ctx context.Context, req PerspectiveRequest) (*PerspectiveResponse, error)
	ChatEdit(ctx context.Context, req ChatEditRequest) (*ChatEditResponse, error)
	Shop(ctx context.Context, req ShopRequest) (*ShopResponse, error)
	Render(ctx context.Context, req RenderRequest) (*RenderResponse, error)
}

// Ensure Client implements Designer at compile time.
var _ Designer = (*Client)(nil)

// Client talks to the design service HTTP API.
type Client struct {
	baseURL   *url.URL
	fast      *http.Client
	slow      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "roomstudio/0.1"

	// fastTimeout covers plain render calls; slowTimeout covers every
	// AI-backed operation. There is no true cancellation: a timed-out
	// request may still complete server-side and is simply discarded.
	fastTimeout = 60 * time.Second
	slowTimeout = 180 * time.Second
)

// NewClient builds a Client for the given base URL. An empty value falls
// back to the local default.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		fast:      &http.Client{Timeout: fastTimeout},
		slow:      &http.Client{Timeout: slowTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Analyze detects objects and room dimensions in an uploaded photo.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	if err := c.post(ctx, c.slow, "/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Optimize requests layout variations with the locked ids pinned in place.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	var resp OptimizeResponse
	if err := c.post(ctx, c.slow, "/optimize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RenderPerspective renders a perspective view of the chosen variation.
func (c *Client) RenderPerspective(ctx context.Context, req PerspectiveRequest) (*PerspectiveResponse, error) {
	var resp PerspectiveResponse
	if err := c.post(ctx, c.slow, "/render/perspective", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatEdit interprets one natural-language command against the current
// layout and image.
func (c *Client) ChatEdit(ctx context.Context, req ChatEditRequest) (*ChatEditResponse, error) {
	var resp ChatEditResponse
	if err := c.post(ctx, c.slow, "/chat/edit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shop searches products for the current layout within a budget.
func (c *Client) Shop(ctx context.Context, req ShopRequest) (*ShopResponse, error) {
	var resp ShopResponse
	if err := c.post(ctx, c.slow, "/shop", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Render applies queued edit masks and layout changes to the original photo.
func (c *Client) Render(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	var resp RenderResponse
	if err := c.post(ctx, c.fast, "/render", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, hc *http.Client, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: path, Message: "could not encode request", Err: err}
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: path, Message: "could not build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return &Error{Op: path, Message: humanizeTransport(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &Error{Op: path, Message: serverMessage(resp)}
	}
	if dest == nil {
		return nil
	}
	// A success response that does not parse is no better than a failed
	// transport; both surface the same way.
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Op: path, Message: "the service returned an unreadable response", Err: err}
	}
	return nil
}

// serverMessage extracts a structured message from an error body, falling
// back to the HTTP status.
func serverMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var body struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			if msg := strings.TrimSpace(body.Detail); msg != "" {
				return msg
			}
			if msg := strings.TrimSpace(body.Message); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("the service returned status %d", resp.StatusCode)
}

func humanizeTransport(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return "the request timed out"
	}
	return "could not reach the design service"
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
