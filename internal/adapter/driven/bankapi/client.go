// Package bankapi implements the remote item-source ports against the bank's
// JSON HTTP API.
package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.FriendsAPI   = (*Client)(nil)
	_ driven.CardsAPI     = (*Client)(nil)
	_ driven.TransfersAPI = (*Client)(nil)
	_ driven.SessionAPI   = (*Client)(nil)
)

// maxErrorBody caps how much of a failed response body is read for its message.
const maxErrorBody = 64 << 10

// APIError is returned for any non-2xx response from the bank API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bank api: %d %s", e.StatusCode, e.Message)
}

// Client implements the friends, cards, transfers and session ports.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	token   string
	logger  *slog.Logger
}

// NewClient creates a bank API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (once a 403/429 response carries X-RateLimit-Remaining: 0,
//     later requests fail fast without reaching the API until X-RateLimit-Reset)
//
// token may be empty for unauthenticated demo servers.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	httpClient := github_ratelimit.NewClient(cacheTransport)
	httpClient.Timeout = timeout

	return NewClientWithHTTPClient(httpClient, baseURL, token, logger)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL: %q is not absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return &Client{
		http:    httpClient,
		baseURL: u,
		token:   token,
		logger:  logger,
	}, nil
}

// FetchFriends retrieves the viewer's friends.
func (c *Client) FetchFriends(ctx context.Context) ([]model.Friend, error) {
	var dtos []friendDTO
	if err := c.getJSON(ctx, "friends", &dtos); err != nil {
		return nil, fmt.Errorf("fetch friends: %w", err)
	}

	friends := make([]model.Friend, 0, len(dtos))
	for _, d := range dtos {
		friends = append(friends, d.toModel())
	}
	return friends, nil
}

// FetchCards retrieves the viewer's cards.
func (c *Client) FetchCards(ctx context.Context) ([]model.Card, error) {
	var dtos []cardDTO
	if err := c.getJSON(ctx, "cards", &dtos); err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}

	cards := make([]model.Card, 0, len(dtos))
	for _, d := range dtos {
		cards = append(cards, d.toModel())
	}
	return cards, nil
}

// FetchTransfers retrieves the viewer's full transfer history, sent and received.
func (c *Client) FetchTransfers(ctx context.Context) ([]model.Transfer, error) {
	var dtos []transferDTO
	if err := c.getJSON(ctx, "transfers", &dtos); err != nil {
		return nil, fmt.Errorf("fetch transfers: %w", err)
	}

	transfers := make([]model.Transfer, 0, len(dtos))
	for i, d := range dtos {
		t, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("fetch transfers: item %d: %w", i, err)
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

// FetchUser retrieves the signed-in viewer.
func (c *Client) FetchUser(ctx context.Context) (model.User, error) {
	var dto userDTO
	if err := c.getJSON(ctx, "user", &dto); err != nil {
		return model.User{}, fmt.Errorf("fetch user: %w", err)
	}
	return dto.toModel(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("bank api response",
		"path", path,
		"status", resp.StatusCode,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload errorDTO
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}
