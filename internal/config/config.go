package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config captures all tunable parameters for the server process. Values come
// from environment variables with defaults that work for local development.
type Config struct {
	HTTPAddr string

	MongoURI string
	MongoDB  string

	TelemetryInterval time.Duration
	BroadcastInterval time.Duration
	BroadcastTopic    string
	MQTTBroker        string
	MQTTClientID      string

	LogLevel string
}

func defaultConfig() Config {
	return Config{
		HTTPAddr:          ":8080",
		MongoDB:           "neurofleet",
		TelemetryInterval: 5 * time.Second,
		BroadcastInterval: 5 * time.Second,
		BroadcastTopic:    "fleet/vehicles",
		MQTTClientID:      "neurofleet-core",
		LogLevel:          "info",
	}
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg := defaultConfig()
	var errs []error

	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setStringFromEnv(&cfg.MongoURI, "MONGO_URI")
	setStringFromEnv(&cfg.MongoDB, "MONGO_DB")
	setDurationFromEnv(&cfg.TelemetryInterval, "TELEMETRY_TICK_INTERVAL", &errs)
	setDurationFromEnv(&cfg.BroadcastInterval, "BROADCAST_INTERVAL", &errs)
	setStringFromEnv(&cfg.BroadcastTopic, "BROADCAST_TOPIC")
	setStringFromEnv(&cfg.MQTTBroker, "MQTT_BROKER")
	setStringFromEnv(&cfg.MQTTClientID, "MQTT_CLIENT_ID")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if cfg.TelemetryInterval <= 0 {
		errs = append(errs, fmt.Errorf("TELEMETRY_TICK_INTERVAL must be > 0"))
	}
	if cfg.BroadcastInterval <= 0 {
		errs = append(errs, fmt.Errorf("BROADCAST_INTERVAL must be > 0"))
	}

	return cfg, errors.Join(errs...)
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}
