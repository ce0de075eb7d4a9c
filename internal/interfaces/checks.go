package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/backup"
	"github.com/mrlokans/stargazer/internal/browser"
	"github.com/mrlokans/stargazer/internal/database"
	"github.com/mrlokans/stargazer/internal/database/favourites"
	"github.com/mrlokans/stargazer/internal/http"
	"github.com/mrlokans/stargazer/internal/metrics"
	"github.com/mrlokans/stargazer/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// FavouritesStore implementations
var _ http.FavouritesStore = (*favourites.Repository)(nil)
var _ http.FavouritesStore = (*favourites.InstrumentedRepository)(nil)
var _ browser.FavouritesStore = (*favourites.Repository)(nil)
var _ browser.FavouritesStore = (*favourites.InstrumentedRepository)(nil)
var _ scheduler.Liker = (*favourites.InstrumentedRepository)(nil)
var _ backup.Adder = (*favourites.InstrumentedRepository)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// External Services
// =============================================================================

// Fetcher implementations
var _ apod.Fetcher = (*apod.Client)(nil)
var _ apod.Fetcher = (*apod.CachedFetcher)(nil)

// =============================================================================
// Observability
// =============================================================================

var _ metrics.Recorder = (*metrics.Provider)(nil)
var _ metrics.Recorder = metrics.Noop{}
var _ apod.FetchObserver = (metrics.Recorder)(nil)
var _ apod.CacheObserver = (metrics.Recorder)(nil)
var _ favourites.OpObserver = (metrics.Recorder)(nil)

// =============================================================================
// Background jobs
// =============================================================================

var _ http.PrefetchStatus = (*scheduler.PrefetchScheduler)(nil)
