package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

type stubFetcher struct {
	picture entities.Picture
	err     error
}

func (f *stubFetcher) Fetch(_ context.Context, date *time.Time) (entities.Picture, error) {
	if date != nil {
		return entities.Picture{}, errors.New("prefetch must ask for the latest picture")
	}
	return f.picture, f.err
}

type stubStore struct {
	items map[string]entities.Picture
	err   error
}

func (s *stubStore) Add(p entities.Picture) error {
	if s.err != nil {
		return s.err
	}
	s.items[p.Date] = p
	return nil
}

func (s *stubStore) Contains(date string) bool {
	_, ok := s.items[date]
	return ok
}

var todayPicture = entities.Picture{Title: "Aurora", Date: "2024-06-20", MediaType: entities.MediaTypeImage}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("5 0 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every day"))
	assert.Error(t, ValidateCronSchedule("0 5 0 * * *"))
}

func TestPrefetchScheduler_RunNow(t *testing.T) {
	store := &stubStore{items: map[string]entities.Picture{}}
	s := NewPrefetchScheduler(&stubFetcher{picture: todayPicture}, store, "5 0 * * *", false, time.Second, zerolog.Nop())

	assert.Nil(t, s.LastRun())

	result := s.RunNow(context.Background())
	require.NoError(t, result.Err)
	assert.Equal(t, "2024-06-20", result.Date)
	assert.False(t, result.Liked)
	assert.Empty(t, store.items)

	last := s.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, "2024-06-20", last.Date)
}

type datedFetcher struct {
	picture entities.Picture
	dated   int
}

func (f *datedFetcher) Fetch(_ context.Context, date *time.Time) (entities.Picture, error) {
	if date != nil {
		f.dated++
	}
	return f.picture, nil
}

func TestPrefetchScheduler_RunNow_WarmsCache(t *testing.T) {
	inner := &datedFetcher{picture: entities.Picture{Title: "Horsehead", Date: "2024-01-01", MediaType: entities.MediaTypeImage}}
	fetcher := apod.NewCachedFetcher(inner, 1, time.Hour, nil, zerolog.Nop())
	cached, ok := fetcher.(*apod.CachedFetcher)
	require.True(t, ok)

	store := &stubStore{items: map[string]entities.Picture{}}
	s := NewPrefetchScheduler(fetcher, store, "5 0 * * *", false, time.Second, zerolog.Nop())

	result := s.RunNow(context.Background())
	require.NoError(t, result.Err)
	assert.Empty(t, store.items)
	assert.Equal(t, int64(1), cached.Len())

	d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	p, err := fetcher.Fetch(context.Background(), &d)
	require.NoError(t, err)
	assert.Equal(t, "Horsehead", p.Title)
	assert.Equal(t, 0, inner.dated)
}

func TestPrefetchScheduler_RunNow_AutoLike(t *testing.T) {
	store := &stubStore{items: map[string]entities.Picture{}}
	s := NewPrefetchScheduler(&stubFetcher{picture: todayPicture}, store, "5 0 * * *", true, time.Second, zerolog.Nop())

	result := s.RunNow(context.Background())
	require.NoError(t, result.Err)
	assert.True(t, result.Liked)
	assert.True(t, store.Contains("2024-06-20"))

	// Already liked: nothing new is written.
	result = s.RunNow(context.Background())
	require.NoError(t, result.Err)
	assert.False(t, result.Liked)
}

func TestPrefetchScheduler_RunNow_Errors(t *testing.T) {
	s := NewPrefetchScheduler(&stubFetcher{err: apod.ErrUnauthorized}, nil, "5 0 * * *", true, 0, zerolog.Nop())
	result := s.RunNow(context.Background())
	assert.ErrorIs(t, result.Err, apod.ErrUnauthorized)

	storeErr := errors.New("read-only database")
	store := &stubStore{items: map[string]entities.Picture{}, err: storeErr}
	s = NewPrefetchScheduler(&stubFetcher{picture: todayPicture}, store, "5 0 * * *", true, 0, zerolog.Nop())
	result = s.RunNow(context.Background())
	assert.ErrorIs(t, result.Err, storeErr)
	assert.False(t, result.Liked)
}

func TestPrefetchScheduler_StartStop(t *testing.T) {
	s := NewPrefetchScheduler(&stubFetcher{picture: todayPicture}, nil, "5 0 * * *", false, 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(ctx))

	next := s.NextRun()
	require.NotNil(t, next)
	assert.Equal(t, 0, next.UTC().Hour())
	assert.Equal(t, 5, next.UTC().Minute())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestPrefetchScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewPrefetchScheduler(&stubFetcher{picture: todayPicture}, nil, "*/5 * * * *", false, 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestPrefetchScheduler_InvalidSchedule(t *testing.T) {
	s := NewPrefetchScheduler(&stubFetcher{}, nil, "not a schedule", false, 0, zerolog.Nop())
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
