// Package places wraps the Google Places API behind the one operation the
// bot needs: free-text venue search.
package places

import (
	"context"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// Search bias: downtown San Cristóbal de las Casas.
var homeLocation = &maps.LatLng{Lat: 16.7370, Lng: -92.6376}

const searchRadiusMeters = 8000

// Venue is one structured place record.
type Venue struct {
	ID       string
	Name     string
	Address  string
	Rating   float32
	OpenNow  *bool // nil when hours are unknown
	PhotoRef string
}

// Client talks to the Places API.
type Client struct {
	api    *maps.Client
	logger *slog.Logger
}

// New creates a Places client. The API key is required.
func New(apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places: API key is required")
	}
	api, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Client{api: api, logger: logger}, nil
}

// Search runs a text search biased around the city and returns the full
// ordered result list. Pagination over the list is the caller's concern.
func (c *Client) Search(ctx context.Context, query string) ([]Venue, error) {
	resp, err := c.api.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    query,
		Location: homeLocation,
		Radius:   searchRadiusMeters,
	})
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}

	venues := make([]Venue, 0, len(resp.Results))
	for _, r := range resp.Results {
		v := Venue{
			ID:      r.PlaceID,
			Name:    r.Name,
			Address: r.FormattedAddress,
			Rating:  r.Rating,
		}
		if r.OpeningHours != nil {
			v.OpenNow = r.OpeningHours.OpenNow
		}
		if len(r.Photos) > 0 {
			v.PhotoRef = r.Photos[0].PhotoReference
		}
		venues = append(venues, v)
	}
	c.logger.Debug("places search", "query", query, "results", len(venues))
	return venues, nil
}
