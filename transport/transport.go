// Package transport configures the HTTP client that requests are dispatched through.
//
// The harness treats the client as an opaque capability: a Registry holds the one
// configuration applied for a suite, hands out the client built from it, and resets back
// to defaults when the suite ends.
package transport

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultIdleTimeout    = 30 * time.Second
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 30 * time.Second
	DefaultMaxConnections = 100
	DefaultMaxPerRoute    = 20
)

// ErrNotApplied is returned by Registry.Config when no configuration has been applied.
var ErrNotApplied = errors.New("no HTTP client configuration has been applied")

// Config holds the fixed connection settings for a suite.
type Config struct {
	// IdleTimeout is how long an idle pooled connection is kept before it is evicted.
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers once the request is written.
	ReadTimeout    time.Duration
	MaxConnections int
	MaxPerRoute    int
}

func DefaultConfig() Config {
	return Config{
		IdleTimeout:    DefaultIdleTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		MaxConnections: DefaultMaxConnections,
		MaxPerRoute:    DefaultMaxPerRoute,
	}
}

// NewClient builds an http.Client with a dedicated connection pool for this Config.
func (c Config) NewClient() *http.Client {
	dialer := &net.Dialer{Timeout: c.ConnectTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			IdleConnTimeout:       c.IdleTimeout,
			MaxIdleConns:          c.MaxConnections,
			MaxIdleConnsPerHost:   c.MaxPerRoute,
			MaxConnsPerHost:       c.MaxPerRoute,
			ResponseHeaderTimeout: c.ReadTimeout,
			TLSHandshakeTimeout:   c.ConnectTimeout,
		},
	}
}

// Registry holds the currently applied client configuration.
type Registry struct {
	config   *Config
	client   *http.Client
	fallback *http.Client
	lock     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Apply makes cfg the active configuration, replacing any earlier one.
func (r *Registry) Apply(cfg Config) *http.Client {
	client := cfg.NewClient()
	r.lock.Lock()
	previous := r.client
	r.config = &cfg
	r.client = client
	r.lock.Unlock()
	if previous != nil {
		previous.CloseIdleConnections()
	}
	return client
}

// Client returns the applied client, or a client with DefaultConfig if none is applied.
func (r *Registry) Client() *http.Client {
	r.lock.RLock()
	client := r.client
	r.lock.RUnlock()
	if client != nil {
		return client
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.client != nil {
		return r.client
	}
	if r.fallback == nil {
		r.fallback = DefaultConfig().NewClient()
	}
	return r.fallback
}

func (r *Registry) Config() (Config, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.config == nil {
		return Config{}, ErrNotApplied
	}
	return *r.config, nil
}

// Reset drops the applied configuration and closes its pooled connections.
func (r *Registry) Reset() {
	r.lock.Lock()
	client := r.client
	r.client = nil
	r.config = nil
	r.lock.Unlock()
	if client != nil {
		client.CloseIdleConnections()
	}
}
