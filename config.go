package dashauth

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by dashauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API       APIConfig
	Storage   StorageConfig
	Routes    RouteConfig
	Elevation ElevationConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig describes the backend the client talks to.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "https://api.bottrapper.example".
	BaseURL string
	// RequestTimeout bounds ordinary API calls.
	RequestTimeout time.Duration
	// AutocompleteTimeout bounds role/member autocomplete lookups. It is
	// deliberately shorter than RequestTimeout: an abandoned autocomplete
	// must never hold up the UI, and its expiry is not an auth failure.
	AutocompleteTimeout time.Duration
	// UserAgent is sent on every outbound request.
	UserAgent string
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig controls the token key layout.
type StorageConfig struct {
	// PrimaryTokenKey holds the bearer token. Defaults to "discord_token",
	// the key the dashboard has always used.
	PrimaryTokenKey string
	// ElevationKeyPrefix prefixes per-guild admin-session keys. Defaults to
	// "admin-session-".
	ElevationKeyPrefix string
	// RedisPrefix namespaces keys when the Redis store is used.
	RedisPrefix string
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig names the views the guard redirects between.
type RouteConfig struct {
	// LoginPath is the unauthenticated landing view.
	LoginPath string
	// GuildSelectPath is where an authenticated root navigation lands; the
	// root route is never a content route.
	GuildSelectPath string
	// PublicPrefixes are route prefixes reachable without a session (login,
	// legal pages). Everything else is protected.
	PublicPrefixes []string
}

/*
====================================
ELEVATION CONFIG
====================================
*/

// ElevationConfig controls admin-session behavior.
type ElevationConfig struct {
	// RevalidateInterval is the suggested period between banner
	// revalidations. Display-only; privileged actions always revalidate.
	RevalidateInterval time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:             "http://localhost:3001",
			RequestTimeout:      20 * time.Second,
			AutocompleteTimeout: 8 * time.Second,
			UserAgent:           "dashauth",
		},
		Storage: StorageConfig{
			PrimaryTokenKey:    "discord_token",
			ElevationKeyPrefix: "admin-session-",
			RedisPrefix:        "dt",
		},
		Routes: RouteConfig{
			LoginPath:       "/login",
			GuildSelectPath: "/guilds",
			PublicPrefixes:  []string{"/login", "/terms", "/privacy"},
		},
		Elevation: ElevationConfig{
			RevalidateInterval: time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Routes.PublicPrefixes = append([]string(nil), cfg.Routes.PublicPrefixes...)
	return out
}

func validateConfig(cfg Config) error {
	if cfg.API.BaseURL == "" {
		return errors.New("api base url required")
	}
	parsed, err := url.Parse(cfg.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("api base url must be absolute")
	}
	if cfg.API.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if cfg.API.AutocompleteTimeout <= 0 || cfg.API.AutocompleteTimeout > cfg.API.RequestTimeout {
		return errors.New("autocomplete timeout must be positive and not exceed request timeout")
	}
	if !strings.HasPrefix(cfg.Routes.LoginPath, "/") {
		return errors.New("login path must be absolute")
	}
	if !strings.HasPrefix(cfg.Routes.GuildSelectPath, "/") {
		return errors.New("guild select path must be absolute")
	}
	return nil
}
