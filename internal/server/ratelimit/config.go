package ratelimit

import (
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit rule for one endpoint.
type EndpointConfig struct {
	Path   string        // exact path, "*" segment wildcard, or "/"-terminated prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads RATE_LIMIT_* environment variables. Unparseable values
// are logged and replaced by their defaults.
func LoadConfig() *Config {
	if !lookup("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    lookup("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   lookup("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: lookup("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTimeout:     lookup("RATE_LIMIT_IDLE_TIMEOUT", time.Hour, time.ParseDuration),
		Whitelist:       ipSet("RATE_LIMIT_WHITELIST"),
		Blacklist:       ipSet("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint rules. Anything unmatched
// uses the global default; GET /health is never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	perMinute := func(path, method string, limit, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: limit, Window: time.Minute, Burst: burst}
	}
	return []EndpointConfig{
		// exports may start a browser
		perMinute("/render", "POST", 30, 5),
		perMinute("/resumes/*/export", "GET", 30, 5),

		perMinute("/auth/login", "POST", 10, 5),
		perMinute("/auth/register", "POST", 5, 5),
		perMinute("/auth/password", "PUT", 5, 5),

		perMinute("/resumes", "POST", 100, 10),
		perMinute("/resumes/*/duplicate", "POST", 100, 10),
		perMinute("/resumes/", "PATCH", 100, 10),
		perMinute("/resumes/", "DELETE", 100, 10),
	}
}

// lookup parses the variable name with parse, falling back to def when it is
// unset or malformed.
func lookup[T any](name string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("[ratelimit] ignoring %s=%q: %v", name, raw, err)
		return def
	}
	return v
}

// ipSet reads a comma-separated list of IP addresses. Entries that are not
// addresses are skipped.
func ipSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, entry := range strings.Split(os.Getenv(name), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			log.Printf("[ratelimit] ignoring %s entry %q: not an IP address", name, entry)
			continue
		}
		set[ip.String()] = true
	}
	return set
}
