// Package favourites provides database operations for liked pictures.
//
// Favourites are keyed by picture date: adding a date that is already
// stored is a no-op, and removing a date that is not stored succeeds.
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	err := repo.Add(picture)
//	pictures, err := repo.List()
package favourites

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/stargazer/internal/entities"
)

// ErrPersistence is matched by every error returned from the repository.
var ErrPersistence = errors.New("favourites storage failure")

// PersistenceError reports that the underlying store could not be read or written.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("favourites %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Repository handles all favourites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add stores picture unless a favourite with the same date already exists.
func (r *Repository) Add(picture entities.Picture) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(entities.NewFavourite(picture)).Error
	if err != nil {
		return &PersistenceError{Op: "add", Err: err}
	}
	return nil
}

// Remove deletes every favourite stored for date.
func (r *Repository) Remove(date string) error {
	err := r.db.Where("date = ?", date).Delete(&entities.Favourite{}).Error
	if err != nil {
		return &PersistenceError{Op: "remove", Err: err}
	}
	return nil
}

// Contains reports whether date is a favourite. Storage errors read as
// "not found"; use ContainsStrict to see them.
func (r *Repository) Contains(date string) bool {
	ok, err := r.ContainsStrict(date)
	if err != nil {
		return false
	}
	return ok
}

// ContainsStrict is Contains without error suppression.
func (r *Repository) ContainsStrict(date string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favourite{}).
		Where("date = ?", date).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "contains", Err: err}
	}
	return count > 0, nil
}

// List returns all favourites, most recent date first.
func (r *Repository) List() ([]entities.Picture, error) {
	var rows []entities.Favourite
	if err := r.db.Order("date DESC").Find(&rows).Error; err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	pictures := make([]entities.Picture, 0, len(rows))
	for _, row := range rows {
		pictures = append(pictures, row.Picture())
	}
	return pictures, nil
}

// Count returns the number of stored favourites.
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Favourite{}).Count(&count).Error; err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return count, nil
}
