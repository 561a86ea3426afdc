package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints holds one base URL per platform microservice. Empty entries mean
// the service is not configured in this deployment.
type Endpoints struct {
	FieldOps      string
	Weather       string
	CropHealth    string
	Satellite     string
	Notifications string
	Tasks         string
}

// Environment variable names for each service base URL.
const (
	EnvFieldOps      = "AGRIKIT_FIELDOPS_URL"
	EnvWeather       = "AGRIKIT_WEATHER_URL"
	EnvCropHealth    = "AGRIKIT_CROPHEALTH_URL"
	EnvSatellite     = "AGRIKIT_SATELLITE_URL"
	EnvNotifications = "AGRIKIT_NOTIFICATIONS_URL"
	EnvTasks         = "AGRIKIT_TASKS_URL"
)

// FromEnv builds Endpoints from the AGRIKIT_*_URL environment variables.
// Values may reference other variables with ${VAR} syntax; a reference to a
// missing variable is an error rather than a silent empty string.
func FromEnv() (Endpoints, error) {
	var e Endpoints
	var err error

	fields := []struct {
		env  string
		dest *string
	}{
		{EnvFieldOps, &e.FieldOps},
		{EnvWeather, &e.Weather},
		{EnvCropHealth, &e.CropHealth},
		{EnvSatellite, &e.Satellite},
		{EnvNotifications, &e.Notifications},
		{EnvTasks, &e.Tasks},
	}

	for _, f := range fields {
		if *f.dest, err = expandVar(f.env); err != nil {
			return Endpoints{}, err
		}
	}

	if err := e.Validate(); err != nil {
		return Endpoints{}, err
	}
	return e, nil
}

// Validate checks that every configured base URL is absolute http(s).
func (e Endpoints) Validate() error {
	services := map[string]string{
		"field-ops":     e.FieldOps,
		"weather":       e.Weather,
		"crop-health":   e.CropHealth,
		"satellite":     e.Satellite,
		"notifications": e.Notifications,
		"tasks":         e.Tasks,
	}

	for name, raw := range services {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s base URL %q: %w", name, raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid %s base URL %q: scheme must be http or https", name, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid %s base URL %q: missing host", name, raw)
		}
	}
	return nil
}

// Configured returns the names of services with a base URL set, in a fixed
// order.
func (e Endpoints) Configured() []string {
	var names []string
	ordered := []struct {
		name string
		raw  string
	}{
		{"field-ops", e.FieldOps},
		{"weather", e.Weather},
		{"crop-health", e.CropHealth},
		{"satellite", e.Satellite},
		{"notifications", e.Notifications},
		{"tasks", e.Tasks},
	}
	for _, s := range ordered {
		if strings.TrimSpace(s.raw) != "" {
			names = append(names, s.name)
		}
	}
	return names
}
