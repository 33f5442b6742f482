package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Coordinate is one lookup position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Resolver is the external elevation lookup capability. Implementations
// may fail or return partial data; callers must treat both as "no value"
// rather than as a hard error.
type Resolver interface {
	// ServiceID identifies the service for source bookkeeping.
	ServiceID() string

	// Resolve returns one elevation per coordinate, nil for coordinates
	// the service could not resolve. The returned slice may be shorter
	// than the input.
	Resolve(ctx context.Context, coords []Coordinate) ([]*float64, error)
}

// OpenElevation is the open-elevation lookup API ID.
const OpenElevation = "open-elevation"

// DefaultLookupTimeout bounds a single lookup call. Resolution is
// best-effort: a slow service must never stall an ingestion.
const DefaultLookupTimeout = 30 * time.Second

// OpenElevationClient resolves elevations against an open-elevation
// compatible endpoint (POST /api/v1/lookup).
type OpenElevationClient struct {
	BaseURL string
	Client  *http.Client
}

// NewOpenElevationClient returns a client with a bounded request timeout.
func NewOpenElevationClient(baseURL string) *OpenElevationClient {
	return &OpenElevationClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: DefaultLookupTimeout},
	}
}

// ServiceID implements Resolver.
func (c *OpenElevationClient) ServiceID() string { return OpenElevation }

type lookupLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupRequest struct {
	Locations []lookupLocation `json:"locations"`
}

// Resolve implements Resolver. Missing results and short responses are
// reported as nil entries, not errors.
func (c *OpenElevationClient) Resolve(ctx context.Context, coords []Coordinate) ([]*float64, error) {
	if len(coords) == 0 {
		return nil, nil
	}

	payload := lookupRequest{Locations: make([]lookupLocation, 0, len(coords))}
	for _, coord := range coords {
		payload.Locations = append(payload.Locations, lookupLocation{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/lookup", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup request: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read lookup response: %w", err)
	}

	out := make([]*float64, len(coords))
	results := gjson.GetBytes(raw, "results")
	if !results.Exists() {
		return out, nil
	}
	for i, result := range results.Array() {
		if i >= len(coords) {
			break
		}
		ele := result.Get("elevation")
		if !ele.Exists() || ele.Type == gjson.Null {
			continue
		}
		v := ele.Float()
		out[i] = &v
	}
	return out, nil
}
