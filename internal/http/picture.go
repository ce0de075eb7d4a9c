package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

// PictureResponse is a picture plus whether it is already a favourite.
type PictureResponse struct {
	entities.Picture
	Liked bool `json:"liked"`
}

type PictureController struct {
	fetcher apod.Fetcher
	store   FavouritesStore
	timeout time.Duration
}

func NewPictureController(fetcher apod.Fetcher, store FavouritesStore, timeout time.Duration) *PictureController {
	return &PictureController{fetcher: fetcher, store: store, timeout: timeout}
}

// GetPicture returns the picture for ?date=YYYY-MM-DD, or the latest one.
// GET /api/apod
func (pc *PictureController) GetPicture(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	picture, err := pc.fetch(c, date)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, PictureResponse{
		Picture: picture,
		Liked:   pc.store != nil && pc.store.Contains(picture.Date),
	})
}

func (pc *PictureController) fetch(c *gin.Context, date *time.Time) (entities.Picture, error) {
	ctx := c.Request.Context()
	if pc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pc.timeout)
		defer cancel()
	}
	return pc.fetcher.Fetch(ctx, date)
}
