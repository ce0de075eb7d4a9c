package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/stargazer/internal/scheduler"
)

// Pinger is implemented by *database.Database.
type Pinger interface {
	Ping() error
}

// PrefetchStatus is implemented by *scheduler.PrefetchScheduler.
type PrefetchStatus interface {
	NextRun() *time.Time
	LastRun() *scheduler.RunResult
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Time       string            `json:"time"`
	Version    string            `json:"version,omitempty"`
	Favourites *int64            `json:"favourites,omitempty"`
	Checks     map[string]string `json:"checks"`
	Prefetch   *PrefetchHealth   `json:"prefetch,omitempty"`
}

type PrefetchHealth struct {
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastDate  string     `json:"last_date,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

type HealthController struct {
	db       Pinger
	store    FavouritesStore
	prefetch PrefetchStatus
	version  string
}

func NewHealthController(db Pinger, store FavouritesStore, prefetch PrefetchStatus, version string) *HealthController {
	return &HealthController{
		db:       db,
		store:    store,
		prefetch: prefetch,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	if h.store != nil && status == "healthy" {
		if count, err := h.store.Count(); err == nil {
			health.Favourites = &count
		}
	}

	if h.prefetch != nil {
		p := &PrefetchHealth{NextRun: h.prefetch.NextRun()}
		if last := h.prefetch.LastRun(); last != nil {
			p.LastRun = &last.At
			p.LastDate = last.Date
			if last.Err != nil {
				p.LastError = last.Err.Error()
			}
		}
		health.Prefetch = p
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
