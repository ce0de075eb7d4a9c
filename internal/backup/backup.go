// Package backup writes and reads favourites archives: a versioned JSON
// document compressed with zstd.
package backup

import (
	"errors"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

const FormatVersion = 1

// ErrUnsupportedVersion is returned for archives written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

type Archive struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Favourites []entities.Picture `json:"favourites"`
}

// Export writes pictures to w.
func Export(w io.Writer, pictures []entities.Picture, now time.Time) error {
	if pictures == nil {
		pictures = []entities.Picture{}
	}

	data, err := json.Marshal(Archive{
		Version:    FormatVersion,
		ExportedAt: now.UTC(),
		Favourites: pictures,
	})
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("compress archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// Import reads an archive written by Export.
func Import(r io.Reader) (*Archive, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}

	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if archive.Version < 1 || archive.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, archive.Version)
	}

	return &archive, nil
}

// Adder is the part of the favourites store Restore needs.
type Adder interface {
	Add(picture entities.Picture) error
}

// Restore adds every picture in archive to store. Pictures already liked
// are left untouched. Dates are stored as YYYY-MM-DD and an entry with any
// other date stops the restore. It returns how many entries were processed.
func Restore(store Adder, archive *Archive) (int, error) {
	for i, picture := range archive.Favourites {
		if picture.Date == "" {
			return i, fmt.Errorf("entry %d has no date", i)
		}
		day, err := apod.ParseDate(picture.Date)
		if err != nil {
			return i, fmt.Errorf("entry %d: %w", i, err)
		}
		if day.Before(entities.EarliestDate) {
			return i, fmt.Errorf("entry %d: %w: %s predates the archive", i, apod.ErrInvalidDate, picture.Date)
		}
		picture.Date = apod.FormatDate(day)

		if err := store.Add(picture); err != nil {
			return i, fmt.Errorf("restore %s: %w", picture.Date, err)
		}
	}
	return len(archive.Favourites), nil
}
