// Package weather provides a small OpenWeather forecast client.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Point is one forecast sample.
type Point struct {
	Time        time.Time
	TempC       float64
	Description string
}

// Forecast is a multi-point time series for one city.
type Forecast struct {
	City   string
	Points []Point
}

// Client queries the OpenWeather forecast API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a weather client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithBaseURL creates a client against a custom endpoint (for testing).
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

type forecastResponse struct {
	Cod  string `json:"cod"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

// Forecast fetches the 5-day/3-hour forecast for a city by name.
func (c *Client) Forecast(ctx context.Context, city string) (Forecast, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Forecast{}, fmt.Errorf("read forecast response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("forecast request failed: status %d", resp.StatusCode)
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}

	f := Forecast{City: parsed.City.Name}
	for _, entry := range parsed.List {
		p := Point{
			Time:  time.Unix(entry.Dt, 0).UTC(),
			TempC: entry.Main.Temp,
		}
		if len(entry.Weather) > 0 {
			p.Description = entry.Weather[0].Description
		}
		f.Points = append(f.Points, p)
	}
	if len(f.Points) == 0 {
		return Forecast{}, fmt.Errorf("forecast response contained no data points")
	}
	return f, nil
}
