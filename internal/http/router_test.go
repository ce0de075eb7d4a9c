package http

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/stargazer/internal/metrics"
)

func TestNewRouter(t *testing.T) {
	db, repo := setupTestDB(t)
	fetcher := newFakeFetcher(testPicture(latestDate, "Today"), testPicture("2023-06-15", "Comet"))
	provider := metrics.NewProvider(nil)

	var logs bytes.Buffer
	router := NewRouter(RouterConfig{
		Fetcher:        fetcher,
		Favourites:     repo,
		Database:       db,
		Logger:         zerolog.New(&logs),
		Recorder:       provider,
		MetricsHandler: provider.Handler(),
		Version:        "test",
	})

	t.Run("health", func(t *testing.T) {
		w := doRequest(router, "GET", "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("like flow", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, doRequest(router, "POST", "/api/favourites/2023-06-15", "").Code)

		w := doRequest(router, "GET", "/api/apod?date=2023-06-15", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"liked":true`)

		assert.Equal(t, http.StatusOK, doRequest(router, "DELETE", "/api/favourites/2023-06-15", "").Code)
		assert.False(t, repo.Contains("2023-06-15"))
	})

	t.Run("request id is generated and echoed", func(t *testing.T) {
		w := doRequest(router, "GET", "/ping", "")
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

		req, _ := http.NewRequest("GET", "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rec := doRequestWith(router, req)
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
		assert.Contains(t, logs.String(), `"request_id":"abc-123"`)
	})

	t.Run("metrics", func(t *testing.T) {
		w := doRequest(router, "GET", "/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `stargazer_requests_total{endpoint="/api/apod",status="2xx"}`)
		assert.Contains(t, w.Body.String(), `endpoint="/api/favourites/:date"`)
	})

	t.Run("unknown route", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/nope", "").Code)
	})
}

func TestNewRouter_WithoutMetrics(t *testing.T) {
	_, repo := setupTestDB(t)
	router := NewRouter(RouterConfig{
		Fetcher:    newFakeFetcher(),
		Favourites: repo,
		Logger:     zerolog.Nop(),
	})

	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/metrics", "").Code)
}
