package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is a rate limit rule for requests matching Method and Path.
type EndpointConfig struct {
	Path   string        // route pattern, see MatchEndpoint
	Method string        // HTTP method
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

func (c *EndpointConfig) key() string {
	return c.Method + " " + c.Path
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		TrustProxy:      getEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route rules. Routes without a rule
// use the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential endpoints
		{Path: "/api/users/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/users/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/api/users/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Spam-prone writes
		{Path: "/api/companies/{id}/reviews", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/api/applications", Method: "POST", Limit: 30, Window: time.Hour, Burst: 10},

		// Other writes
		{Path: "/api/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Search hits the database twice per request
		{Path: "/api/jobs", Method: "GET", Limit: 300, Window: time.Minute, Burst: 60},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
