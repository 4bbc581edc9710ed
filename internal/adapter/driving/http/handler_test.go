package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	httphandler "github.com/ericfisherdev/ibank/internal/adapter/driving/http"
	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// --- Mock implementations ---

type mockFriendsAPI struct {
	calls   atomic.Int32
	friends []model.Friend
	err     error
}

func (m *mockFriendsAPI) FetchFriends(_ context.Context) ([]model.Friend, error) {
	m.calls.Add(1)
	return m.friends, m.err
}

type mockCardsAPI struct {
	cards []model.Card
	err   error
}

func (m *mockCardsAPI) FetchCards(_ context.Context) ([]model.Card, error) {
	return m.cards, m.err
}

type mockTransfersAPI struct {
	transfers []model.Transfer
	err       error
}

func (m *mockTransfersAPI) FetchTransfers(_ context.Context) ([]model.Transfer, error) {
	return m.transfers, m.err
}

type mockFriendsCache struct {
	friends []model.Friend
}

func (m *mockFriendsCache) Save(_ context.Context, friends []model.Friend) error {
	m.friends = friends
	return nil
}

func (m *mockFriendsCache) Load(_ context.Context) ([]model.Friend, error) {
	return m.friends, nil
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type mockRequestRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (m *mockRequestRecorder) RecordRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: status})
}

func (m *mockRequestRecorder) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// --- Helpers ---

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type apiFixture struct {
	friends   *mockFriendsAPI
	cards     *mockCardsAPI
	transfers *mockTransfersAPI
}

func newAPIFixture() *apiFixture {
	return &apiFixture{
		friends: &mockFriendsAPI{friends: []model.Friend{
			{Name: "Ada", Phone: "111"},
			{Name: "Grace", Phone: "222"},
		}},
		cards: &mockCardsAPI{cards: []model.Card{{Number: "**** 4242", Holder: "Ada Lovelace"}}},
		transfers: &mockTransfersAPI{transfers: []model.Transfer{{
			Amount:       decimal.RequireFromString("12.50"),
			CurrencyCode: "USD",
			Description:  "Lunch",
			Date:         time.Date(2026, time.March, 14, 9, 5, 0, 0, time.UTC),
			Sender:       "Me",
			Recipient:    "Linus",
			IsSender:     true,
		}}},
	}
}

func (f *apiFixture) server(t *testing.T, opts httphandler.MiddlewareOptions) *httptest.Server {
	t.Helper()

	formatter := application.NewFormatter(language.AmericanEnglish, time.UTC)
	screens := application.NewScreens(application.ScreenDeps{
		FriendsAPI:   f.friends,
		CardsAPI:     f.cards,
		TransfersAPI: f.transfers,
		FriendsCache: &mockFriendsCache{},
		Formatter:    formatter,
		Logger:       discardLogger,
	})

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics\n")
	})

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(screens, formatter, metrics, discardLogger))

	srv := httptest.NewServer(httphandler.ApplyMiddleware(mux, discardLogger, opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// --- Tests ---

func TestHealth(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[httphandler.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	_, err := time.Parse(time.RFC3339, body.Time)
	assert.NoError(t, err)
}

func TestListScreens(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	screens := decode[[]httphandler.ScreenResponse](t, resp)
	require.Len(t, screens, 4)
	assert.Equal(t, httphandler.ScreenResponse{ID: "friends", Title: "Friends", Action: "Add Friend"}, screens[0])
	assert.Equal(t, "cards", screens[3].ID)
}

func TestListItems_Friends(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decode[[]httphandler.RowResponse](t, resp)
	assert.Equal(t, []httphandler.RowResponse{
		{Index: 0, Title: "Ada", Subtitle: "111"},
		{Index: 1, Title: "Grace", Subtitle: "222"},
	}, rows)
}

func TestListItems_LoadsOnlyWhenEmptyUnlessRefresh(t *testing.T) {
	fx := newAPIFixture()
	srv := fx.server(t, httphandler.MiddlewareOptions{})

	do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")
	do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")
	assert.Equal(t, int32(1), fx.friends.calls.Load())

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items?refresh=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), fx.friends.calls.Load())
}

func TestListItems_SentTransferSubtitle(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens/sent/items")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decode[[]httphandler.RowResponse](t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sent to: Linus on March 14, 2026 at 9:05 AM", rows[0].Subtitle)
}

func TestListItems_FailureReturnsAlert(t *testing.T) {
	fx := newAPIFixture()
	fx.cards.err = errors.New("bank unreachable")
	srv := fx.server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens/cards/items")

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body struct {
		Error string                     `json:"error"`
		Alert *httphandler.AlertResponse `json:"alert"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bank unreachable", body.Error)
	require.NotNil(t, body.Alert)
	assert.Equal(t, httphandler.AlertResponse{Title: "Error", Message: "bank unreachable", Action: "Ok"}, *body.Alert)
}

func TestListItems_UnknownScreen(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/screens/articles/items")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSelectItem_Transfer(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})
	do(t, http.MethodGet, srv.URL+"/api/v1/screens/sent/items")

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/screens/sent/items/0/select")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[httphandler.ItemResponse](t, resp)
	assert.Equal(t, "transfer", item.Kind)
	require.NotNil(t, item.Transfer)
	assert.Nil(t, item.Friend)
	assert.Equal(t, "12.5", item.Transfer.Amount)
	assert.Equal(t, "2026-03-14T09:05:00Z", item.Transfer.Date)
	assert.Equal(t, "March 14, 2026 at 9:05 AM", item.Transfer.FormattedDate)
	assert.Equal(t, "$12.50", item.Transfer.FormattedAmount)
}

func TestSelectItem_Friend(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})
	do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/screens/friends/items/1/select")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[httphandler.ItemResponse](t, resp)
	require.NotNil(t, item.Friend)
	assert.Equal(t, httphandler.FriendResponse{Name: "Grace", Phone: "222"}, *item.Friend)
}

func TestSelectItem_BadIndex(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})
	do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")

	tests := []struct {
		name   string
		index  string
		status int
	}{
		{name: "out of range", index: "9", status: http.StatusNotFound},
		{name: "negative", index: "-1", status: http.StatusNotFound},
		{name: "not a number", index: "first", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/screens/friends/items/"+tt.index+"/select")
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDismissAlert(t *testing.T) {
	fx := newAPIFixture()
	fx.cards.err = errors.New("bank unreachable")
	srv := fx.server(t, httphandler.MiddlewareOptions{})
	do(t, http.MethodGet, srv.URL+"/api/v1/screens/cards/items")

	resp := do(t, http.MethodDelete, srv.URL+"/api/v1/screens/cards/alert")

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	resp := do(t, http.MethodGet, srv.URL+"/metrics")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "# metrics"))
}

func TestMiddleware_RequestID(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{})

	minted := do(t, http.MethodGet, srv.URL+"/api/v1/health")
	assert.Len(t, minted.Header.Get(httphandler.RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set(httphandler.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(httphandler.RequestIDHeader))
}

func TestMiddleware_RateLimit(t *testing.T) {
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/v1/health").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/v1/health").StatusCode)

	limited := do(t, http.MethodGet, srv.URL+"/api/v1/health")
	assert.Equal(t, http.StatusTooManyRequests, limited.StatusCode)
	assert.Equal(t, "1", limited.Header.Get("Retry-After"))
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	recorder := &mockRequestRecorder{}
	srv := newAPIFixture().server(t, httphandler.MiddlewareOptions{Recorder: recorder})

	do(t, http.MethodGet, srv.URL+"/api/v1/screens/friends/items")
	do(t, http.MethodGet, srv.URL+"/nope")

	// The recorder runs after the response is flushed.
	require.Eventually(t, func() bool { return len(recorder.Requests()) == 2 }, time.Second, 5*time.Millisecond)

	assert.ElementsMatch(t, []recordedRequest{
		{method: http.MethodGet, route: "GET /api/v1/screens/{screen}/items", status: http.StatusOK},
		{method: http.MethodGet, route: "unmatched", status: http.StatusNotFound},
	}, recorder.Requests())
}

func TestMiddleware_RecoversPanics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	srv := httptest.NewServer(httphandler.ApplyMiddleware(mux, discardLogger, httphandler.MiddlewareOptions{}))
	t.Cleanup(srv.Close)

	resp := do(t, http.MethodGet, srv.URL+"/boom")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
