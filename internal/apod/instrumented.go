package apod

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/entities"
)

// FetchObserver receives the outcome and latency of every fetch.
type FetchObserver interface {
	ObserveFetch(outcome string, duration time.Duration)
}

type instrumentedFetcher struct {
	inner    Fetcher
	observer FetchObserver
	logger   zerolog.Logger
}

// Instrument reports each fetch made through inner to observer and logs failures.
func Instrument(inner Fetcher, observer FetchObserver, logger zerolog.Logger) Fetcher {
	return &instrumentedFetcher{inner: inner, observer: observer, logger: logger}
}

func (f *instrumentedFetcher) Fetch(ctx context.Context, date *time.Time) (entities.Picture, error) {
	start := time.Now()
	picture, err := f.inner.Fetch(ctx, date)
	elapsed := time.Since(start)

	requested := "latest"
	if date != nil {
		requested = FormatDate(*date)
	}

	if err != nil {
		code := Code(err)
		if IsCanceled(err) {
			code = "canceled"
		}
		f.observer.ObserveFetch(code, elapsed)
		f.logger.Warn().Err(err).Str("requested", requested).Str("code", code).Dur("elapsed", elapsed).Msg("APOD fetch failed")
		return entities.Picture{}, err
	}

	f.observer.ObserveFetch("ok", elapsed)
	f.logger.Debug().Str("requested", requested).Str("date", picture.Date).Dur("elapsed", elapsed).Msg("APOD fetched")
	return picture, nil
}
