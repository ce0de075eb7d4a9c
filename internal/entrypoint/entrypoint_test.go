package entrypoint

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/stargazer/internal/config"
)

func testConfig(t *testing.T, apodURL string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "stargazer.db")
	cfg.APOD.APIKey = "TEST_KEY"
	cfg.APOD.BaseURL = apodURL
	cfg.APOD.Timeout = 2 * time.Second
	return cfg
}

func TestNewApp(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"title":"Comet","explanation":"e","date":"2023-06-15","url":"https://x/c.jpg","media_type":"image"}`))
	}))
	defer upstream.Close()

	app, err := NewApp(testConfig(t, upstream.URL), zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Metrics)

	date := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		picture, err := app.Fetcher.Fetch(context.Background(), &date)
		require.NoError(t, err)
		assert.Equal(t, "Comet", picture.Title)
	}
	assert.Equal(t, int32(1), calls.Load(), "past dates are served from cache")

	picture, err := app.Fetcher.Fetch(context.Background(), &date)
	require.NoError(t, err)
	require.NoError(t, app.Favourites.Add(picture))
	assert.True(t, app.Favourites.Contains("2023-06-15"))
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t, "https://api.nasa.gov/planetary/apod")
	cfg.Metrics.Enabled = false

	app, err := NewApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Metrics)
	assert.NotNil(t, app.Recorder)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "https://api.nasa.gov/planetary/apod")
	cfg.Log.Format = "xml"

	_, err := NewApp(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "invalid configuration")
}

func freePort(t *testing.T) int32 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return int32(l.Addr().(*net.TCPAddr).Port)
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t, "https://api.nasa.gov/planetary/apod")
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = freePort(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, handler, cfg, zerolog.Nop(), func(context.Context) { close(shutdownCalled) })
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", cfg.HTTP.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-shutdownCalled
}

func TestServe_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig(t, "https://api.nasa.gov/planetary/apod")
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = int32(l.Addr().(*net.TCPAddr).Port)

	err = Serve(context.Background(), http.NotFoundHandler(), cfg, zerolog.Nop(), nil)
	assert.ErrorContains(t, err, "listen")
}
