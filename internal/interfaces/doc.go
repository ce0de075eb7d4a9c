// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - FavouritesStore: liked pictures for the HTTP API (internal/http/favourites.go)
//   - FavouritesStore: liked pictures for a browsing session (internal/browser/session.go)
//   - Liker: what the prefetch job writes (internal/scheduler/prefetch.go)
//   - Adder: what a backup restore writes (internal/backup/backup.go)
//
// ## External Service Interfaces
//
//   - Fetcher: one picture per call (internal/apod/client.go). Client talks
//     to the API, CachedFetcher and Instrument decorate any Fetcher.
//
// ## Observability Interfaces
//
//   - Recorder: every metric the application emits (internal/metrics/metrics.go).
//     It satisfies FetchObserver, CacheObserver and OpObserver, so a single
//     Provider or Noop is passed everywhere.
//
// # Adding a New Picture Source
//
// To serve pictures from somewhere other than the APOD API (e.g., a local mirror):
//
//  1. Implement Fetcher:
//
//     type MirrorFetcher struct {
//         root string
//     }
//
//     func (m *MirrorFetcher) Fetch(ctx context.Context, date *time.Time) (entities.Picture, error)
//
//  2. Return the apod error types so callers can classify failures.
//
//  3. Wrap it in entrypoint.NewApp the same way as Client:
//
//     apod.Instrument(apod.NewCachedFetcher(mirror, ...), recorder, logger)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current set.
package interfaces
