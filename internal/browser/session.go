// Package browser drives a single user's view of the picture archive:
// the picture currently on screen, its loading and error state, and the
// list of liked pictures.
//
// A Session holds no rendering logic. Callers observe it either by polling
// State or by registering Events callbacks, and render whatever they like.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

// ErrNoPicture is returned by LikeCurrent before any picture has loaded.
var ErrNoPicture = errors.New("no picture loaded")

// FavouritesStore is the subset of the favourites repository a session needs.
type FavouritesStore interface {
	Add(picture entities.Picture) error
	Remove(date string) error
	Contains(date string) bool
	List() ([]entities.Picture, error)
}

// Events are invoked after the session state has changed. Every callback
// is optional and runs on the goroutine that triggered the change.
type Events struct {
	OnLoading      func(loading bool)
	OnPicture      func(picture entities.Picture)
	OnError        func(message string, err error)
	OnLikedChanged func(liked []entities.Picture)
}

// State is a snapshot of what a screen would render.
type State struct {
	Loading      bool
	Picture      *entities.Picture
	ErrorMessage string
}

type Session struct {
	fetcher apod.Fetcher
	store   FavouritesStore
	events  Events
	logger  zerolog.Logger

	mu       sync.Mutex
	inflight int
	seq      uint64
	picture  *entities.Picture
	errMsg   string
	liked    []entities.Picture
}

func NewSession(fetcher apod.Fetcher, store FavouritesStore, events Events, logger zerolog.Logger) *Session {
	return &Session{
		fetcher: fetcher,
		store:   store,
		events:  events,
		logger:  logger,
	}
}

// Load fetches the picture for date (nil for the latest) and makes it the
// current picture. On failure the current picture is left as it was and the
// error message is set. A result that arrives after a newer Load started is
// returned to the caller but does not replace the newer state.
func (s *Session) Load(ctx context.Context, date *time.Time) (entities.Picture, error) {
	s.mu.Lock()
	s.inflight++
	s.seq++
	seq := s.seq
	s.errMsg = ""
	s.mu.Unlock()
	s.emitLoading(true)

	picture, err := s.fetcher.Fetch(ctx, date)

	s.mu.Lock()
	s.inflight--
	latest := seq == s.seq
	var message string
	if latest {
		if err == nil {
			p := picture
			s.picture = &p
		} else if !apod.IsCanceled(err) {
			message = errorMessage(err, date)
			s.errMsg = message
		}
	}
	s.mu.Unlock()
	s.emitLoading(false)

	if !latest {
		return picture, err
	}
	if err != nil {
		if message != "" {
			s.logger.Debug().Err(err).Str("message", message).Msg("Picture load failed")
			if s.events.OnError != nil {
				s.events.OnError(message, err)
			}
		}
		return entities.Picture{}, err
	}
	if s.events.OnPicture != nil {
		s.events.OnPicture(picture)
	}
	return picture, nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Loading:      s.inflight > 0,
		ErrorMessage: s.errMsg,
	}
	if s.picture != nil {
		p := *s.picture
		st.Picture = &p
	}
	return st
}

// Current returns the picture on screen, if any.
func (s *Session) Current() (entities.Picture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.picture == nil {
		return entities.Picture{}, false
	}
	return *s.picture, true
}

// LikeCurrent adds the current picture to favourites. Liking an already
// liked picture is a no-op.
func (s *Session) LikeCurrent() error {
	picture, ok := s.Current()
	if !ok {
		return ErrNoPicture
	}

	if s.store.Contains(picture.Date) {
		s.logger.Debug().Str("date", picture.Date).Msg("Picture already liked")
		return nil
	}

	if err := s.store.Add(picture); err != nil {
		return err
	}
	s.logger.Info().Str("date", picture.Date).Str("title", picture.Title).Msg("Picture liked")

	return s.Refresh()
}

// Unlike removes date from favourites.
func (s *Session) Unlike(date string) error {
	if err := s.store.Remove(date); err != nil {
		return err
	}
	s.logger.Info().Str("date", date).Msg("Picture unliked")

	return s.Refresh()
}

// IsLiked reports whether date is in favourites.
func (s *Session) IsLiked(date string) bool {
	return s.store.Contains(date)
}

// Refresh reloads the liked list from the store.
func (s *Session) Refresh() error {
	liked, err := s.store.List()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.liked = liked
	s.mu.Unlock()

	if s.events.OnLikedChanged != nil {
		s.events.OnLikedChanged(cloneList(liked))
	}
	return nil
}

// Liked returns the liked pictures as of the last refresh, most recent first.
func (s *Session) Liked() []entities.Picture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.liked)
}

func (s *Session) emitLoading(loading bool) {
	if s.events.OnLoading != nil {
		s.events.OnLoading(loading)
	}
}

func errorMessage(err error, date *time.Time) string {
	msg := apod.UserMessage(err)
	if errors.Is(err, apod.ErrInvalidDate) && date != nil {
		msg += " Selected: " + date.Format("January 2, 2006") + "."
	}
	return msg
}

func cloneList(in []entities.Picture) []entities.Picture {
	out := make([]entities.Picture, len(in))
	copy(out, in)
	return out
}
