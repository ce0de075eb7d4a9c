package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware(cfg.Logger))
	router.Use(AccessLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if cfg.Recorder != nil {
		router.Use(MetricsMiddleware(cfg.Recorder))
	}

	pictures := NewPictureController(cfg.Fetcher, cfg.Favourites, cfg.FetchTimeout)
	health := NewHealthController(cfg.Database, cfg.Favourites, cfg.Prefetch, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	// Picture endpoints
	router.GET("/api/apod", pictures.GetPicture)

	// Favourites endpoints
	if cfg.Favourites != nil {
		favourites := NewFavouritesController(cfg.Favourites, pictures)
		router.GET("/api/favourites", favourites.ListFavourites)
		router.POST("/api/favourites", favourites.AddFavourite)
		router.GET("/api/favourites/count", favourites.GetFavouriteCount)
		router.GET("/api/favourites/:date", favourites.GetFavouriteStatus)
		router.POST("/api/favourites/:date", favourites.LikeDate)
		router.DELETE("/api/favourites/:date", favourites.RemoveFavourite)
	}

	return router
}
