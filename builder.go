package dashauth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/bottrapper/dashauth/tokenstore"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by dashauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store      tokenstore.Store
	redis      redis.UniversalClient
	httpClient *http.Client
	auditSink  AuditSink

	built bool
}

// New creates a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL overrides the backend origin.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithRequestTimeout overrides the per-request timeout.
func (b *Builder) WithRequestTimeout(timeout time.Duration) *Builder {
	b.config.API.RequestTimeout = timeout
	return b
}

// WithStore sets the token store. Without an explicit store (or Redis
// client), Build wires a file-backed store with in-memory fallback.
func (b *Builder) WithStore(store tokenstore.Store) *Builder {
	b.store = store
	return b
}

// WithRedis selects a Redis-backed token store for multi-instance
// deployments. Ignored when WithStore was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// by the request pipeline; cookies and TLS settings are preserved.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithAuditSink enables audit dispatch to the given sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithMetricsEnabled toggles metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the elevation-validate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles a [Client]. Construction
// performs no I/O; the token store is touched lazily on first use.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	base, err := url.Parse(b.config.API.BaseURL)
	if err != nil {
		return nil, err
	}

	store := b.store
	if store == nil && b.redis != nil {
		store = tokenstore.NewRedis(b.redis, b.config.Storage.RedisPrefix)
	}

	client := &Client{
		config:  b.config,
		base:    base,
		keys:    tokenstore.NewKeys(b.config.Storage.PrimaryTokenKey, b.config.Storage.ElevationKeyPrefix),
		metrics: NewMetrics(b.config.Metrics),
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
	}

	if store == nil {
		store = defaultStore(client)
	}
	client.store = store

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	inner := httpClient.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	wrapped := *httpClient
	wrapped.Transport = &Transport{base: inner, client: client}
	client.httpClient = &wrapped

	return client, nil
}

// defaultStore builds the file-backed store with memory fallback. When the
// user config dir cannot be resolved, tokens live in memory only.
func defaultStore(client *Client) tokenstore.Store {
	path, err := tokenstore.DefaultFilePath()
	if err != nil {
		return tokenstore.NewMemory()
	}
	return tokenstore.NewFallback(tokenstore.NewFile(path), func(err error) {
		client.emit(nil, EventStorageDegraded, "", false, err.Error())
	})
}
