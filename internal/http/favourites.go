package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/entities"
)

// FavouritesStore defines database operations for favourites management.
type FavouritesStore interface {
	Add(picture entities.Picture) error
	Remove(date string) error
	Contains(date string) bool
	List() ([]entities.Picture, error)
	Count() (int64, error)
}

type FavouritesController struct {
	store   FavouritesStore
	fetcher *PictureController
}

// NewFavouritesController wires the favourites endpoints. pictures is used
// by LikeDate to resolve a date into a picture and may be nil.
func NewFavouritesController(store FavouritesStore, pictures *PictureController) *FavouritesController {
	return &FavouritesController{store: store, fetcher: pictures}
}

// pictureRequest is the body accepted by AddFavourite.
type pictureRequest struct {
	Title       string  `json:"title" binding:"required"`
	Explanation string  `json:"explanation" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	URL         string  `json:"url" binding:"required"`
	MediaType   string  `json:"media_type" binding:"required"`
	Copyright   *string `json:"copyright"`
}

// ListFavourites returns every favourite, most recent date first.
// GET /api/favourites
func (fc *FavouritesController) ListFavourites(c *gin.Context) {
	pictures, err := fc.store.List()
	if err != nil {
		respondInternalError(c, err, "list favourites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favourites": pictures,
		"total":      len(pictures),
	})
}

// AddFavourite stores the picture in the request body. Adding a date that
// is already stored succeeds without changing it.
// POST /api/favourites
func (fc *FavouritesController) AddFavourite(c *gin.Context) {
	var req pictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid picture: "+err.Error())
		return
	}
	d, ok := parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	picture := entities.Picture{
		Title:       req.Title,
		Explanation: req.Explanation,
		Date:        apod.FormatDate(d),
		URL:         req.URL,
		MediaType:   entities.MediaType(req.MediaType),
		Copyright:   req.Copyright,
	}

	if err := fc.store.Add(picture); err != nil {
		respondInternalError(c, err, "add favourite")
		return
	}

	respondCreated(c, PictureResponse{Picture: picture, Liked: true})
}

// LikeDate fetches the picture for :date and stores it.
// POST /api/favourites/:date
func (fc *FavouritesController) LikeDate(c *gin.Context) {
	d, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	if fc.fetcher == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "picture lookup is not configured"})
		return
	}

	picture, err := fc.fetcher.fetch(c, &d)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	if err := fc.store.Add(picture); err != nil {
		respondInternalError(c, err, "like picture")
		return
	}

	respondCreated(c, PictureResponse{Picture: picture, Liked: true})
}

// RemoveFavourite deletes the favourite for :date. Removing a date that is
// not stored succeeds.
// DELETE /api/favourites/:date
func (fc *FavouritesController) RemoveFavourite(c *gin.Context) {
	d, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	if err := fc.store.Remove(apod.FormatDate(d)); err != nil {
		respondInternalError(c, err, "remove favourite")
		return
	}

	respondSuccess(c, "favourite removed")
}

// GetFavouriteStatus reports whether :date is a favourite.
// GET /api/favourites/:date
func (fc *FavouritesController) GetFavouriteStatus(c *gin.Context) {
	d, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	date := apod.FormatDate(d)
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"liked": fc.store.Contains(date),
	})
}

// GetFavouriteCount returns the number of stored favourites.
// GET /api/favourites/count
func (fc *FavouritesController) GetFavouriteCount(c *gin.Context) {
	count, err := fc.store.Count()
	if err != nil {
		respondInternalError(c, err, "count favourites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
