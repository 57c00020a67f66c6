package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string
	KafkaEnabled bool

	EnableHoldReaper   bool
	EnableSLAMonitor   bool
	EnableOutboxRelay  bool
	EnableStatsUpdater bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "aucta-wg"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,
		KafkaEnabled: envBool("KAFKA_ENABLED", false),

		EnableHoldReaper:   envBool("ENABLE_HOLD_REAPER", true),
		EnableSLAMonitor:   envBool("ENABLE_SLA_MONITOR", true),
		EnableOutboxRelay:  envBool("ENABLE_OUTBOX_RELAY", true),
		EnableStatsUpdater: envBool("ENABLE_STATS_UPDATER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
