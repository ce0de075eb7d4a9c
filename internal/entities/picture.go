package entities

import (
	"time"
)

// DateLayout is the canonical string form of a picture date.
const DateLayout = "2006-01-02"

// EarliestDate is the first day the APOD archive has an entry for.
var EarliestDate = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeOther MediaType = "other"
)

// Kind reports how the media should be rendered. Unknown values are kept
// verbatim on the record and rendered as MediaTypeOther.
func (m MediaType) Kind() MediaType {
	switch m {
	case MediaTypeImage, MediaTypeVideo:
		return m
	default:
		return MediaTypeOther
	}
}

// Picture is a single Astronomy Picture of the Day entry.
type Picture struct {
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
	Date        string    `json:"date"`
	URL         string    `json:"url"`
	MediaType   MediaType `json:"media_type"`
	Copyright   *string   `json:"copyright,omitempty"`
}

// Day parses the picture date. The zero time is returned for malformed dates.
func (p Picture) Day() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CopyrightOrEmpty returns the copyright holder, or "" when unattributed.
func (p Picture) CopyrightOrEmpty() string {
	if p.Copyright == nil {
		return ""
	}
	return *p.Copyright
}

// Favourite is the persisted form of a Picture the user has liked.
type Favourite struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"uniqueIndex;size:10;not null" json:"date"`
	Title       string    `gorm:"size:512" json:"title"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	URL         string    `gorm:"size:2048" json:"url"`
	MediaType   MediaType `gorm:"size:32" json:"media_type"`
	Copyright   *string   `gorm:"size:512" json:"copyright,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewFavourite(p Picture) *Favourite {
	return &Favourite{
		Date:        p.Date,
		Title:       p.Title,
		Explanation: p.Explanation,
		URL:         p.URL,
		MediaType:   p.MediaType,
		Copyright:   p.Copyright,
	}
}

// Picture rebuilds the domain record from the stored row.
func (f Favourite) Picture() Picture {
	return Picture{
		Title:       f.Title,
		Explanation: f.Explanation,
		Date:        f.Date,
		URL:         f.URL,
		MediaType:   f.MediaType,
		Copyright:   f.Copyright,
	}
}
