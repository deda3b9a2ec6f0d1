package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable wraps every failure to reach or understand the geocoding API.
var ErrUnavailable = errors.New("geocoding unavailable")

// DefaultBaseURL is the Mapbox API root.
const DefaultBaseURL = "https://api.mapbox.com"

// Place is a geocoded location.
type Place struct {
	ID        string     `json:"id"`
	PlaceName string     `json:"place_name"`
	Center    [2]float64 `json:"center"` // lng, lat
}

// Options tunes the client. Zero values take defaults.
type Options struct {
	BaseURL       string
	Country       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client wraps the Mapbox Places geocoding API.
type Client struct {
	token      string
	baseURL    string
	country    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a geocoding client for token.
// Returns nil if the token is empty (graceful degradation).
func NewClient(token string, opts Options) *Client {
	if token == "" {
		return nil
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Country == "" {
		opts.Country = "US"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	return &Client{
		token:   token,
		baseURL: opts.BaseURL,
		country: opts.Country,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
	}
}

type placesResponse struct {
	Features []feature `json:"features"`
	Message  string    `json:"message"`
}

type feature struct {
	ID        string     `json:"id"`
	PlaceName string     `json:"place_name"`
	Center    [2]float64 `json:"center"`
}

// Forward converts free-form text into up to five candidate places.
func (c *Client) Forward(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("country", c.country)
	q.Set("autocomplete", "true")
	q.Set("types", "address,place,postcode")
	q.Set("limit", "5")

	resp, err := c.get(ctx, url.PathEscape(query), q)
	if err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		places = append(places, Place(f))
	}
	return places, nil
}

// Reverse returns the most relevant place at a coordinate, or nil when the API
// has nothing there.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("country", c.country)
	q.Set("types", "address,place,poi")

	path := strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
	resp, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, nil
	}
	p := Place(resp.Features[0])
	return &p, nil
}

func (c *Client) get(ctx context.Context, search string, q url.Values) (*placesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	u := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, search, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var out placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response (HTTP %d): %v", ErrUnavailable, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrUnavailable, resp.StatusCode, out.Message)
	}

	logResponse(resp.StatusCode, time.Since(start), len(out.Features))
	return &out, nil
}
