// Package config provides configuration defaults, path resolution and the
// config file writer for voltsight.
// All default values should be defined here to ensure a single source of truth.
package config

import "github.com/spf13/viper"

const (
	// AppName is used for directory and file names.
	AppName = "voltsight"

	// ConfigName is the config file base name (.voltsight.yaml).
	ConfigName = ".voltsight"

	// EnvPrefix prefixes environment overrides, e.g. VOLTSIGHT_API_BASE_URL.
	EnvPrefix = "VOLTSIGHT"
)

// Backend defaults
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 0
)

// Storage backends
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"

	DefaultStorageBackend = StorageSQLite
)

// Telemetry form defaults
const (
	DefaultTotalDistanceKm = 12500
	DefaultChargingTimeMin = 45
)

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("verbose", false)

	viper.SetDefault("api.base_url", DefaultBaseURL)
	viper.SetDefault("api.timeout_seconds", DefaultTimeoutSeconds)

	viper.SetDefault("storage.backend", DefaultStorageBackend)
	viper.SetDefault("storage.path", "")

	viper.SetDefault("ui.dark_mode", false)
	viper.SetDefault("ui.sidebar_open", true)

	viper.SetDefault("telemetry.total_dist_km", DefaultTotalDistanceKm)
	viper.SetDefault("telemetry.charging_time_min", DefaultChargingTimeMin)
}
