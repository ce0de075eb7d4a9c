package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/apod"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (retryable, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	requestLogger(c).Error().Err(err).Str("context", context).Msg("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondFetchError maps an APOD fetch failure onto an HTTP status. The body
// carries the message a person should see, not the raw error.
func respondFetchError(c *gin.Context, err error) {
	var status int
	var transportErr *apod.TransportError
	var serverErr *apod.ServerError
	var decodeErr *apod.DecodeError

	switch {
	case apod.IsCanceled(err):
		c.AbortWithStatus(statusClientClosedRequest)
		return
	case errors.Is(err, apod.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, apod.ErrUnauthorized):
		status = http.StatusBadGateway
	case errors.As(err, &transportErr):
		status = http.StatusServiceUnavailable
		if transportErr.Timeout() {
			status = http.StatusGatewayTimeout
		}
	case errors.As(err, &serverErr), errors.As(err, &decodeErr):
		status = http.StatusBadGateway
	default:
		respondInternalError(c, err, "fetch picture")
		return
	}

	c.JSON(status, ErrorResponse{
		Error:   apod.UserMessage(err),
		Code:    apod.Code(err),
		Details: gin.H{"retryable": apod.IsRetryable(err)},
	})
}

// nginx convention for a client that went away before the response.
const statusClientClosedRequest = 499

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseDateParam extracts a YYYY-MM-DD date from URL parameters.
// Returns the parsed date or responds with a 400 error and returns false.
func parseDateParam(c *gin.Context, paramName string) (time.Time, bool) {
	return parseDate(c, paramName, c.Param(paramName))
}

// parseDateQuery is parseDateParam for an optional query parameter. A
// missing parameter yields nil.
func parseDateQuery(c *gin.Context, paramName string) (*time.Time, bool) {
	raw := c.Query(paramName)
	if raw == "" {
		return nil, true
	}
	d, ok := parseDate(c, paramName, raw)
	if !ok {
		return nil, false
	}
	return &d, true
}

func parseDate(c *gin.Context, paramName, raw string) (time.Time, bool) {
	d, err := apod.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid " + paramName + ", expected YYYY-MM-DD",
			Code:  apod.Code(err),
		})
		return time.Time{}, false
	}
	return d, true
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ContextKeyLogger); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	nop := zerolog.Nop()
	return &nop
}
