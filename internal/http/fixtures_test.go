package http

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/database"
	"github.com/mrlokans/stargazer/internal/database/favourites"
	"github.com/mrlokans/stargazer/internal/entities"
)

// fakeFetcher serves pictures from a map keyed by date. The latest picture
// is the one stored under latestDate.
type fakeFetcher struct {
	mu       sync.Mutex
	pictures map[string]entities.Picture
	err      error
	calls    int
}

const latestDate = "2024-06-20"

func newFakeFetcher(pictures ...entities.Picture) *fakeFetcher {
	f := &fakeFetcher{pictures: make(map[string]entities.Picture)}
	for _, p := range pictures {
		f.pictures[p.Date] = p
	}
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, date *time.Time) (entities.Picture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.err != nil {
		return entities.Picture{}, f.err
	}
	key := latestDate
	if date != nil {
		key = apod.FormatDate(*date)
	}
	p, ok := f.pictures[key]
	if !ok {
		return entities.Picture{}, &apod.ServerError{StatusCode: 404}
	}
	return p, nil
}

func testPicture(date, title string) entities.Picture {
	return entities.Picture{
		Title:       title,
		Explanation: "Explanation for " + title,
		Date:        date,
		URL:         "https://apod.nasa.gov/apod/image/" + date + ".jpg",
		MediaType:   entities.MediaTypeImage,
	}
}

func setupTestDB(t *testing.T) (*database.Database, *favourites.Repository) {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "stargazer.db"), zerolog.Nop(), database.WithSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, favourites.NewRepository(db.DB)
}
