package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

type stubBank struct {
	friendCalls atomic.Int32
	friendsErr  error
	transfers   []model.Transfer
}

func (s *stubBank) FetchFriends(_ context.Context) ([]model.Friend, error) {
	s.friendCalls.Add(1)
	if s.friendsErr != nil {
		return nil, s.friendsErr
	}
	return []model.Friend{{Name: "Ada <3", Phone: "111"}}, nil
}

func (s *stubBank) FetchCards(_ context.Context) ([]model.Card, error) {
	return []model.Card{{Number: "**** 4242", Holder: "Ada"}}, nil
}

func (s *stubBank) FetchTransfers(_ context.Context) ([]model.Transfer, error) {
	return s.transfers, nil
}

type nopCache struct{}

func (nopCache) Save(context.Context, []model.Friend) error { return nil }
func (nopCache) Load(context.Context) ([]model.Friend, error) { return nil, errors.New("empty") }

func newTestMux(t *testing.T, bank *stubBank) *http.ServeMux {
	t.Helper()
	mux, _ := newTestMuxWithScreens(t, bank)
	return mux
}

func newTestMuxWithScreens(t *testing.T, bank *stubBank) (*http.ServeMux, *application.Screens) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	formatter := application.NewFormatter(language.AmericanEnglish, time.UTC)
	screens := application.NewScreens(application.ScreenDeps{
		FriendsAPI:   bank,
		CardsAPI:     bank,
		TransfersAPI: bank,
		FriendsCache: nopCache{},
		Formatter:    formatter,
		Logger:       logger,
	})

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(screens, formatter, logger))
	return mux, screens
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postForm(path, token string) *http.Request {
	form := url.Values{}
	if token != "" {
		form.Set(csrfFormField, token)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	return req
}

func TestRoot_RedirectsToFriends(t *testing.T) {
	mux := newTestMux(t, &stubBank{})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app/friends", rec.Header().Get("Location"))
}

func TestList_RendersRowsAndTabs(t *testing.T) {
	mux := newTestMux(t, &stubBank{})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Friends</h1>")
	assert.Contains(t, body, "Add Friend")
	assert.Contains(t, body, "Ada &lt;3")
	assert.NotContains(t, body, "Ada <3")
	assert.Contains(t, body, `href="/app/friends/0"`)
	assert.Contains(t, body, `href="/app/cards"`)
	assert.Contains(t, body, `class="active"`)
	assert.NotEmpty(t, rec.Result().Cookies(), "csrf cookie should be set")
}

func TestList_FailureRendersAlert(t *testing.T) {
	mux := newTestMux(t, &stubBank{friendsErr: errors.New("bank offline")})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "<strong>Error</strong>")
	assert.Contains(t, body, "bank offline")
	assert.Contains(t, body, ">Ok</button>")
	assert.Contains(t, body, "Nothing to show yet.")
}

func TestList_UnknownScreen(t *testing.T) {
	mux := newTestMux(t, &stubBank{})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/app/articles", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDetail_TransferRendersSanitizedMarkdown(t *testing.T) {
	bank := &stubBank{transfers: []model.Transfer{{
		Amount:       decimal.RequireFromString("42"),
		CurrencyCode: "USD",
		Description:  "**Rent** <script>alert(1)</script>",
		Date:         time.Date(2026, time.March, 14, 9, 5, 0, 0, time.UTC),
		Sender:       "Me",
		Recipient:    "Landlord",
		IsSender:     true,
	}}}
	mux := newTestMux(t, bank)
	serve(mux, httptest.NewRequest(http.MethodGet, "/app/sent", nil))

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/app/sent/0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Rent</strong>")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "Landlord")
	assert.Contains(t, body, "March 14, 2026 at 9:05 AM")
	assert.Contains(t, body, `href="/app/sent"`)
}

func TestDetail_BadIndex(t *testing.T) {
	mux := newTestMux(t, &stubBank{})
	serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends", nil))

	assert.Equal(t, http.StatusNotFound, serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends/7", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends/x", nil)).Code)
}

func TestRefresh_RequiresCSRF(t *testing.T) {
	bank := &stubBank{}
	mux := newTestMux(t, bank)

	rec := serve(mux, postForm("/app/friends/refresh", ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, int32(0), bank.friendCalls.Load())
}

func TestRefresh_ReloadsAndRedirects(t *testing.T) {
	bank := &stubBank{}
	mux := newTestMux(t, bank)
	serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends", nil))

	rec := serve(mux, postForm("/app/friends/refresh", "tok"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/friends", rec.Header().Get("Location"))
	assert.Equal(t, int32(2), bank.friendCalls.Load())
}

func TestDismissAlert_ClearsAlert(t *testing.T) {
	mux, screens := newTestMuxWithScreens(t, &stubBank{friendsErr: errors.New("bank offline")})
	serve(mux, httptest.NewRequest(http.MethodGet, "/app/friends", nil))

	friends, ok := screens.Get(model.ScreenFriends)
	require.True(t, ok)
	_, pending := friends.Alert()
	require.True(t, pending)

	rec := serve(mux, postForm("/app/friends/alert/dismiss", "tok"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, pending = friends.Alert()
	assert.False(t, pending)
}

func TestStaticStylesheet(t *testing.T) {
	mux := newTestMux(t, &stubBank{})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".tabs")
}
