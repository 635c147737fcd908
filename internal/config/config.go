// Package config reads process settings from the environment (optionally
// populated from a .env file by the caller).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Return the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Return key parsed as a float, or fallback when unset or unparsable.
func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("invalid float setting, using default")
		return fallback
	}
	return f
}

// Return key parsed as a duration. Bare numbers are read as seconds.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("invalid duration setting, using default")
		return fallback
	}
	return d
}

// Settings for the coordinator server.
type Server struct {
	Port               string
	CityMapPath        string
	RegistryHost       string
	DefaultSpeed       float64
	WaypointProximity  float64
	PollEarly          time.Duration
	EndpointEpsilon    float64
	VehicleCallTimeout time.Duration
	DBPath             string
	DatabaseURL        string
	RedisAddr          string
	RouteCacheTTL      time.Duration
	LogLevel           string
}

// Load server settings from the environment with the documented defaults.
func LoadServer() Server {
	return Server{
		Port:               Get("PORT", "8080"),
		CityMapPath:        Get("CITY_MAP_PATH", "../city.json"),
		RegistryHost:       Get("REGISTRY_HOST", "http://127.0.0.1:9000"),
		DefaultSpeed:       GetFloat("DEFAULT_SPEED", 10.0),
		WaypointProximity:  GetFloat("WAYPOINT_PROXIMITY", 10.0),
		PollEarly:          GetDuration("POLL_EARLY_SECS", 2*time.Second),
		EndpointEpsilon:    GetFloat("ENDPOINT_EPSILON", 1.0),
		VehicleCallTimeout: GetDuration("VEHICLE_CALL_TIMEOUT", 5*time.Second),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		RedisAddr:          Get("REDIS_ADDR", ""),
		RouteCacheTTL:      GetDuration("ROUTE_CACHE_TTL", time.Hour),
		LogLevel:           Get("LOG_LEVEL", "info"),
	}
}
