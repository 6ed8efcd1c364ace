package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tsukumogami/leadgenius/internal/log"
)

// PacedProvider delays calls to keep a provider under a request budget.
// It only waits; it never retries a failed call.
type PacedProvider struct {
	inner     Provider
	limiter   *rate.Limiter
	logger    log.Logger
	onRequest func(time.Time)
}

// NewPacedProvider wraps p so that at most perMinute Generate calls start in
// any minute. perMinute <= 0 returns p unchanged.
func NewPacedProvider(p Provider, perMinute int, logger log.Logger) Provider {
	if perMinute <= 0 {
		return p
	}
	return &PacedProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:  log.Or(logger),
	}
}

// Pace wraps p per opts.RequestsPerMinute, seeded with opts.LastRequest and
// reporting to opts.OnRequest. Without a budget p is returned unchanged.
func Pace(p Provider, opts Options) Provider {
	paced := NewPacedProvider(p, opts.RequestsPerMinute, opts.Logger)
	if pp, ok := paced.(*PacedProvider); ok {
		pp.Seed(opts.LastRequest)
		pp.OnRequest(opts.OnRequest)
	}
	return paced
}

// Seed records a request that started at last, typically in an earlier
// process, so the next call waits out the rest of its interval. A zero
// time is ignored and a future time is treated as now.
func (p *PacedProvider) Seed(last time.Time) {
	if last.IsZero() {
		return
	}
	if now := time.Now(); last.After(now) {
		last = now
	}
	p.limiter.AllowN(last, 1)
}

// OnRequest registers fn to be called with the start time of every request
// that passes the limiter.
func (p *PacedProvider) OnRequest(fn func(time.Time)) {
	p.onRequest = fn
}

// Name returns the wrapped provider's name.
func (p *PacedProvider) Name() string {
	return p.inner.Name()
}

// Generate waits for a request slot, then calls the wrapped provider.
func (p *PacedProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if r := p.limiter.Reserve(); r.OK() {
		if delay := r.Delay(); delay > 0 {
			p.logger.Info("waiting for request budget", "provider", p.inner.Name(), "delay", delay.String())
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				r.Cancel()
				return nil, fmt.Errorf("%s: %w", p.inner.Name(), ctx.Err())
			case <-timer.C:
			}
		}
	}
	if p.onRequest != nil {
		p.onRequest(time.Now())
	}
	return p.inner.Generate(ctx, req)
}
