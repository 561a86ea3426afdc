// Package weather is the typed client for the weather service: current
// conditions, forecasts, and spray-window risk for field operations.
package weather

import (
	"context"
	"strconv"
	"time"

	"github.com/agrisight/agrikit/api"
)

// Observation is one observed set of conditions.
type Observation struct {
	TempC      float64   `json:"temp_c"`
	Humidity   float64   `json:"humidity"`
	WindKph    float64   `json:"wind_kph"`
	PrecipMm   float64   `json:"precip_mm"`
	Condition  string    `json:"condition"`
	ObservedAt time.Time `json:"observed_at"`
}

// ForecastDay is one day of forecast.
type ForecastDay struct {
	Date         string  `json:"date"`
	TempMinC     float64 `json:"temp_min_c"`
	TempMaxC     float64 `json:"temp_max_c"`
	PrecipMm     float64 `json:"precip_mm"`
	PrecipChance float64 `json:"precip_chance"`
	WindKph      float64 `json:"wind_kph"`
	Condition    string  `json:"condition"`
}

// SprayWindow is a period the service considers suitable for spraying,
// with its assessed drift/wash-off risk.
type SprayWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Risk  string    `json:"risk"` // low|moderate|high
}

// Client calls the weather service.
type Client struct {
	api *api.Client
}

// NewClient wraps an api.Client configured for the weather base URL.
func NewClient(c *api.Client) *Client {
	return &Client{api: c}
}

// Current returns the current conditions at a point.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Observation, error) {
	return api.Call[Observation](ctx, c.api, api.Request{
		Endpoint: "/v1/current",
		Query:    coordParams(lat, lon),
	})
}

// Forecast returns up to days of daily forecast at a point.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) ([]ForecastDay, error) {
	query := coordParams(lat, lon)
	query = append(query, api.Param{Key: "days", Value: strconv.Itoa(days)})
	return api.Call[[]ForecastDay](ctx, c.api, api.Request{
		Endpoint: "/v1/forecast",
		Query:    query,
	})
}

// SprayWindows returns the spray windows assessed for a field.
func (c *Client) SprayWindows(ctx context.Context, fieldID string) ([]SprayWindow, error) {
	return api.Call[[]SprayWindow](ctx, c.api, api.Request{
		Endpoint: "/v1/fields/" + fieldID + "/spray-windows",
	})
}

func coordParams(lat, lon float64) []api.Param {
	return []api.Param{
		{Key: "lat", Value: strconv.FormatFloat(lat, 'f', -1, 64)},
		{Key: "lon", Value: strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}
