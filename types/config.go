/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	UI        UIConfig        `mapstructure:"ui"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig locates the battery-health backend
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// TimeoutSeconds bounds each HTTP request; 0 leaves the transport defaults
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"min=0,max=600"`
}

// StorageConfig selects where the session key lives
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=sqlite file"`
	// Path is the storage directory; empty means the resolved data dir
	Path string `mapstructure:"path"`
}

// UIConfig holds the initial display preferences
type UIConfig struct {
	DarkMode    bool `mapstructure:"dark_mode"`
	SidebarOpen bool `mapstructure:"sidebar_open"`
}

// TelemetryConfig pre-fills the prediction form
type TelemetryConfig struct {
	TotalDistanceKm float64 `mapstructure:"total_dist_km" validate:"gte=0"`
	ChargingTimeMin float64 `mapstructure:"charging_time_min" validate:"gte=0"`
}
