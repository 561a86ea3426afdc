// Package fieldops is the typed client for the field-ops service: field
// registry CRUD and irrigation recommendations.
package fieldops

import (
	"context"
	"time"

	"github.com/agrisight/agrikit/api"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Field is one registered field parcel.
type Field struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Crop         string     `json:"crop"`
	AreaHectares float64    `json:"area_hectares"`
	Centroid     Coordinate `json:"centroid"`
	SoilType     string     `json:"soil_type,omitempty"`
	PlantedAt    *time.Time `json:"planted_at,omitempty"`
}

// CreateFieldRequest is the payload for registering a field.
type CreateFieldRequest struct {
	Name         string     `json:"name"`
	Crop         string     `json:"crop"`
	AreaHectares float64    `json:"area_hectares"`
	Centroid     Coordinate `json:"centroid"`
	SoilType     string     `json:"soil_type,omitempty"`
}

// IrrigationAdvice is the service's irrigation recommendation for a field.
type IrrigationAdvice struct {
	FieldID      string    `json:"field_id"`
	Recommended  bool      `json:"recommended"`
	DepthMm      float64   `json:"depth_mm"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	SoilMoisture float64   `json:"soil_moisture"`
	Reason       string    `json:"reason,omitempty"`
}

// Client calls the field-ops service.
type Client struct {
	api *api.Client
}

// NewClient wraps an api.Client configured for the field-ops base URL.
func NewClient(c *api.Client) *Client {
	return &Client{api: c}
}

// ListFields returns every field visible to the session, optionally filtered
// by crop.
func (c *Client) ListFields(ctx context.Context, crop string) ([]Field, error) {
	req := api.Request{Endpoint: "/v1/fields"}
	if crop != "" {
		req.Query = []api.Param{{Key: "crop", Value: crop}}
	}
	return api.Call[[]Field](ctx, c.api, req)
}

// GetField returns one field by ID.
func (c *Client) GetField(ctx context.Context, id string) (Field, error) {
	return api.Call[Field](ctx, c.api, api.Request{
		Endpoint: "/v1/fields/" + id,
	})
}

// CreateField registers a new field.
func (c *Client) CreateField(ctx context.Context, req CreateFieldRequest) (Field, error) {
	return api.Call[Field](ctx, c.api, api.Request{
		Endpoint: "/v1/fields",
		Method:   "POST",
		Body:     req,
	})
}

// DeleteField removes a field. Deletion is not replayed on transient
// failure; the caller decides whether to re-issue it.
func (c *Client) DeleteField(ctx context.Context, id string) error {
	env := c.api.Do(ctx, api.Request{
		Endpoint:  "/v1/fields/" + id,
		Method:    "DELETE",
		SkipRetry: true,
	})
	return env.Err()
}

// IrrigationAdvice returns the current irrigation recommendation for a
// field.
func (c *Client) IrrigationAdvice(ctx context.Context, fieldID string) (IrrigationAdvice, error) {
	return api.Call[IrrigationAdvice](ctx, c.api, api.Request{
		Endpoint: "/v1/fields/" + fieldID + "/irrigation",
	})
}
