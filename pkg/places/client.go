package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultBaseURL  = "https://places.googleapis.com/v1"
	DefaultPageSize = 9
	DefaultRadius   = 1000.0

	// Only place ids are free to query, everything else is billed per SKU.
	searchFieldMask  = "places.id"
	detailsFieldMask = "reviews.text.text,displayName,delivery,photos,rating,googleMapsUri"

	photoMaxHeight = 400
	photoMaxWidth  = 400

	providerName = "Google Maps API"
	cloudScope   = "https://www.googleapis.com/auth/cloud-platform"
)

// Client is a small Places API (new) client: text search for ids, place details and photo media.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	radius     float64
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithRadius(meters float64) Option {
	return func(c *Client) {
		if meters > 0 {
			c.radius = meters
		}
	}
}

// WithBreakerSettings replaces the default circuit breaker configuration.
// A nil IsSuccessful keeps the client's own failure classification.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(c *Client) {
		if st.IsSuccessful == nil {
			st.IsSuccessful = isSuccessful
		}
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](st)
	}
}

// isSuccessful reports whether err leaves the breaker counts alone. Rate
// limits and caller cancellation say nothing about the API's health.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var rl *RateLimitError
	return errors.As(err, &rl) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		pageSize:   DefaultPageSize,
		radius:     DefaultRadius,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "places",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: isSuccessful,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientWithDefaultCredentials authenticates with Application Default Credentials
// instead of an API key.
func NewClientWithDefaultCredentials(ctx context.Context, opts ...Option) (*Client, error) {
	hc, err := google.DefaultClient(ctx, cloudScope)
	if err != nil {
		return nil, fmt.Errorf("load default credentials: %w", err)
	}
	return NewClient("", append([]Option{WithHTTPClient(hc)}, opts...)...), nil
}

// SearchIDs runs a text search biased towards the given point and returns place ids only.
func (c *Client) SearchIDs(ctx context.Context, query string, bias BiasPoint) ([]string, error) {
	radius := bias.Radius
	if radius <= 0 {
		radius = c.radius
	}

	body := searchTextRequest{
		TextQuery: query,
		PageSize:  c.pageSize,
		OpenNow:   false,
		LocationBias: &locationBias{
			Circle: circle{
				Center: latLng{Latitude: bias.Latitude, Longitude: bias.Longitude},
				Radius: radius,
			},
		},
	}

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, body)
	if err != nil {
		return nil, err
	}

	var res searchTextResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(res.Places))
	for _, p := range res.Places {
		if p.Id != "" {
			ids = append(ids, p.Id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoResults
	}
	return ids, nil
}

// GetDetails fetches name, reviews, rating, delivery, maps uri and photo references of one place.
func (c *Client) GetDetails(ctx context.Context, placeId string) (*Details, error) {
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/places/"+url.PathEscape(placeId), detailsFieldMask, nil)
	if err != nil {
		return nil, err
	}

	var d Details
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode details response: %w", err)
	}
	return &d, nil
}

// GetPhotoURI resolves a photo resource name ("places/ID/photos/REF") to a short lived image uri.
func (c *Client) GetPhotoURI(ctx context.Context, photoName string) (string, error) {
	q := url.Values{}
	q.Set("maxHeightPx", fmt.Sprint(photoMaxHeight))
	q.Set("maxWidthPx", fmt.Sprint(photoMaxWidth))
	q.Set("skipHttpRedirect", "true")

	endpoint := fmt.Sprintf("%s/%s/media?%s", c.baseURL, photoName, q.Encode())
	raw, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return "", err
	}

	var res photoMediaResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("decode photo response: %w", err)
	}
	return res.PhotoUri, nil
}

// Validate issues a one result search to check that the credentials are accepted.
func (c *Client) Validate(ctx context.Context) error {
	body := searchTextRequest{TextQuery: "restaurant", PageSize: 1}
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, body)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint, fieldMask string, payload interface{}) ([]byte, error) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			b, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			body = bytes.NewBuffer(b)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Goog-Api-Key", c.apiKey)
		}
		if fieldMask != "" {
			req.Header.Set("X-Goog-FieldMask", fieldMask)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("places request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RateLimitError{Provider: providerName, Message: "Rate limits hit"}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("places api error (status %d): %s", resp.StatusCode, string(respBody))
		}
		return respBody, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("places api unavailable: %w", err)
	}
	return raw, err
}
