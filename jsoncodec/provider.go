package jsoncodec

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Provider owns the lifecycle of one Codec. Get constructs it on first use; Destroy drops
// it so that the next Get builds a fresh one with the same configuration.
type Provider struct {
	codec  atomic.Pointer[Codec]
	lock   sync.Mutex
	logger *zap.Logger
	builds atomic.Int64
}

func NewProvider(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger}
}

// Get returns the current Codec, creating it if necessary. Concurrent first calls
// produce exactly one instance.
func (p *Provider) Get() *Codec {
	if c := p.codec.Load(); c != nil {
		return c
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if c := p.codec.Load(); c != nil {
		return c
	}
	p.logger.Info("Initializing JSON codec")
	c := New(p.logger)
	p.codec.Store(c)
	p.builds.Add(1)
	p.logger.Info("JSON codec initialized successfully")
	return c
}

// Destroy releases the current Codec, if any.
func (p *Provider) Destroy() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.codec.Swap(nil) != nil {
		p.logger.Info("JSON codec cleanup completed")
	}
}

func (p *Provider) Initialized() bool {
	return p.codec.Load() != nil
}

// Builds is the number of Codec instances this Provider has constructed.
func (p *Provider) Builds() int64 {
	return p.builds.Load()
}
