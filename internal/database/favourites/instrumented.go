package favourites

import (
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/entities"
)

// OpObserver is notified of every mutating or listing operation.
type OpObserver interface {
	IncFavouriteOp(op string, ok bool)
}

// InstrumentedRepository reports repository operations to an observer and
// logs storage failures.
type InstrumentedRepository struct {
	*Repository
	observer OpObserver
	logger   zerolog.Logger
}

func NewInstrumentedRepository(repo *Repository, observer OpObserver, logger zerolog.Logger) *InstrumentedRepository {
	return &InstrumentedRepository{Repository: repo, observer: observer, logger: logger}
}

func (r *InstrumentedRepository) Add(picture entities.Picture) error {
	err := r.Repository.Add(picture)
	r.record("add", picture.Date, err)
	return err
}

func (r *InstrumentedRepository) Remove(date string) error {
	err := r.Repository.Remove(date)
	r.record("remove", date, err)
	return err
}

// Contains keeps the permissive semantics of Repository.Contains, but the
// suppressed error is still logged.
func (r *InstrumentedRepository) Contains(date string) bool {
	ok, err := r.Repository.ContainsStrict(date)
	r.record("contains", date, err)
	return err == nil && ok
}

func (r *InstrumentedRepository) List() ([]entities.Picture, error) {
	pictures, err := r.Repository.List()
	r.record("list", "", err)
	return pictures, err
}

func (r *InstrumentedRepository) record(op, date string, err error) {
	r.observer.IncFavouriteOp(op, err == nil)
	if err != nil {
		r.logger.Error().Err(err).Str("op", op).Str("date", date).Msg("Favourites storage failure")
	}
}
