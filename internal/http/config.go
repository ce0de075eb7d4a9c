package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/metrics"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Fetcher    apod.Fetcher
	Favourites FavouritesStore
	Database   Pinger

	// Observability
	Logger         zerolog.Logger
	Recorder       metrics.Recorder // nil disables request metrics
	MetricsHandler http.Handler     // nil disables GET /metrics

	// Prefetch status, optional
	Prefetch PrefetchStatus

	// Upper bound for a single upstream fetch made on behalf of a request
	FetchTimeout time.Duration

	// Application info
	Version string
}
