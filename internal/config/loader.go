package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/types"
)

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// LoadAppConfig unmarshals and validates the configuration held by viper.
// Defaults must already be registered (SetDefaults).
func LoadAppConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := validate.Struct(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("invalid configuration: %s", describeValidation(err))
	}
	return cfg, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		key := configKey(e.Namespace())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, key+" is required")
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a URL (got %q)", key, e.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s] (got %q)", key, e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", key, e.Tag(), e.Param(), e.Value()))
		}
	}
	return strings.Join(msgs, "; ")
}

// configKey maps a struct namespace such as "AppConfig.API.BaseURL" to the
// dotted key users write ("api.base_url").
func configKey(namespace string) string {
	known := map[string]string{
		"API.BaseURL":               "api.base_url",
		"API.TimeoutSeconds":        "api.timeout_seconds",
		"Storage.Backend":           "storage.backend",
		"Storage.Path":              "storage.path",
		"Telemetry.TotalDistanceKm": "telemetry.total_dist_km",
		"Telemetry.ChargingTimeMin": "telemetry.charging_time_min",
	}
	ns := strings.TrimPrefix(namespace, "AppConfig.")
	if k, ok := known[ns]; ok {
		return k
	}
	return strings.ToLower(ns)
}

// APIClientConfig converts the loaded settings into backend client options.
func APIClientConfig(cfg types.AppConfig) api.Config {
	return api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	}
}
