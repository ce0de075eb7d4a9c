// Package apod talks to NASA's Astronomy Picture of the Day API.
//
// The client issues exactly one request per Fetch call and classifies the
// outcome into the error types declared in errors.go. It performs no retries
// and keeps no state between calls besides its configuration.
package apod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/entities"
)

const (
	DefaultBaseURL   = "https://api.nasa.gov/planetary/apod"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Stargazer/1.0 (+https://github.com/mrlokans/stargazer)"

	// maxErrorBody caps how much of a failed response is kept on ServerError.
	maxErrorBody = 4 << 10
	maxBody      = 1 << 20
)

// Fetcher retrieves a single picture. A nil date means the latest entry.
type Fetcher interface {
	Fetch(ctx context.Context, date *time.Time) (entities.Picture, error)
}

// Client fetches pictures from the APOD API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	now        func() time.Time
	logger     zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the transport timeout. It has no effect when combined
// with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithClock overrides the source of "today" used for date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an APOD client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		userAgent: DefaultUserAgent,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the picture for date, or the latest picture when date is nil.
func (c *Client) Fetch(ctx context.Context, date *time.Time) (entities.Picture, error) {
	if date != nil {
		if err := ValidateDate(*date, c.now()); err != nil {
			return entities.Picture{}, err
		}
	}

	reqURL, err := c.buildURL(date)
	if err != nil {
		return entities.Picture{}, fmt.Errorf("build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entities.Picture{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.Picture{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return entities.Picture{}, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return entities.Picture{}, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	// A body cut short after a 2xx is a failed connection, not a bad payload.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return entities.Picture{}, &TransportError{Err: err}
	}

	picture, err := decodePicture(body)
	if err != nil {
		c.logger.Error().Err(err).
			Int("status", resp.StatusCode).
			Str("content_type", resp.Header.Get("Content-Type")).
			Msg("APOD response did not match the expected shape")
		return entities.Picture{}, &DecodeError{Err: err}
	}

	return picture, nil
}

func (c *Client) buildURL(date *time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	if date != nil {
		q.Set("date", FormatDate(*date))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// apodResponse mirrors the JSON document returned by the API. Pointers let
// decodePicture tell a missing field apart from an empty one.
type apodResponse struct {
	Title       *string `json:"title"`
	Explanation *string `json:"explanation"`
	Date        *string `json:"date"`
	URL         *string `json:"url"`
	MediaType   *string `json:"media_type"`
	Copyright   *string `json:"copyright"`
}

func decodePicture(body []byte) (entities.Picture, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return entities.Picture{}, errors.New("empty response body")
	}

	var r apodResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return entities.Picture{}, err
	}

	var missing []string
	for name, field := range map[string]*string{
		"title":       r.Title,
		"explanation": r.Explanation,
		"date":        r.Date,
		"url":         r.URL,
		"media_type":  r.MediaType,
	} {
		if field == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return entities.Picture{}, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	if strings.TrimSpace(*r.Title) == "" {
		return entities.Picture{}, errors.New("empty title")
	}

	return entities.Picture{
		Title:       *r.Title,
		Explanation: *r.Explanation,
		Date:        *r.Date,
		URL:         *r.URL,
		MediaType:   entities.MediaType(*r.MediaType),
		Copyright:   r.Copyright,
	}, nil
}

// IsCanceled reports whether err came from the caller abandoning the request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
