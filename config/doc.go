// Package config resolves the base URLs of the platform's microservices.
//
// Each service gets one AGRIKIT_<SERVICE>_URL environment variable. Values
// may reference other environment variables with ${VAR} syntax; references
// to missing variables fail loudly instead of producing empty URLs.
//
//	os.Setenv("PLATFORM_HOST", "internal.agrisight.io")
//	os.Setenv("AGRIKIT_WEATHER_URL", "https://weather.${PLATFORM_HOST}")
//
//	endpoints, err := config.FromEnv()
package config
