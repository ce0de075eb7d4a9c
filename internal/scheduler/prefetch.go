package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Liker is the part of the favourites store the prefetcher writes to.
type Liker interface {
	Add(picture entities.Picture) error
	Contains(date string) bool
}

// RunResult describes the outcome of the last prefetch.
type RunResult struct {
	At      time.Time
	Date    string
	Liked   bool
	Err     error
	Elapsed time.Duration
}

// PrefetchScheduler fetches the latest picture on a schedule and, optionally,
// saves it to favourites. Behind an apod.CachedFetcher a latest picture whose
// date is already past is cached under that date.
type PrefetchScheduler struct {
	fetcher  apod.Fetcher
	store    Liker
	schedule string
	autoLike bool
	timeout  time.Duration
	logger   zerolog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	last       *RunResult
}

func NewPrefetchScheduler(fetcher apod.Fetcher, store Liker, schedule string, autoLike bool, timeout time.Duration, logger zerolog.Logger) *PrefetchScheduler {
	return &PrefetchScheduler{
		fetcher:  fetcher,
		store:    store,
		schedule: schedule,
		autoLike: autoLike,
		timeout:  timeout,
		logger:   logger.With().Str("component", "prefetch").Logger(),
		cron:     cron.New(cron.WithParser(cronParser), cron.WithLocation(time.UTC)),
	}
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *PrefetchScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prefetch job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Bool("auto_like", s.autoLike).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("Prefetch scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running prefetch to finish and stops the scheduler.
func (s *PrefetchScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// A running job records its result under mu, so wait unlocked.
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	s.logger.Info().Msg("Prefetch scheduler stopped")
}

func (s *PrefetchScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next prefetch will occur, or nil if stopped.
func (s *PrefetchScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// LastRun returns the result of the most recent prefetch, if any.
func (s *PrefetchScheduler) LastRun() *RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil
	}
	r := *s.last
	return &r
}

// RunNow performs a prefetch immediately and records its result.
func (s *PrefetchScheduler) RunNow(ctx context.Context) RunResult {
	start := time.Now()
	result := RunResult{At: start.UTC()}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	picture, err := s.fetcher.Fetch(ctx, nil)
	if err != nil {
		result.Err = err
		s.logger.Error().Err(err).Str("code", apod.Code(err)).Msg("Prefetch failed")
	} else {
		result.Date = picture.Date
		if s.autoLike && s.store != nil && !s.store.Contains(picture.Date) {
			if err := s.store.Add(picture); err != nil {
				result.Err = err
				s.logger.Error().Err(err).Str("date", picture.Date).Msg("Prefetch could not save favourite")
			} else {
				result.Liked = true
			}
		}
		if result.Err == nil {
			s.logger.Info().
				Str("date", picture.Date).
				Str("title", picture.Title).
				Bool("liked", result.Liked).
				Msg("Prefetched picture of the day")
		}
	}
	result.Elapsed = time.Since(start)

	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()

	return result
}
