package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker is implemented by component-level checkers (store, identity provider).
type Checker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// PingChecker wraps a Pinger into a periodic Checker.
type PingChecker struct {
	name         string
	target       Pinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewPingChecker creates a checker that probes target every interval.
// It starts unhealthy until the first successful probe.
func NewPingChecker(name string, target Pinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	c := &PingChecker{name: name, target: target, log: log, probeTimeout: probeTimeout}
	c.healthy.Store(0)
	return c
}

func (c *PingChecker) Name() string { return c.name }

// IsHealthy returns the cached health status (non-blocking).
func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

// Start begins periodic health checking until ctx is cancelled.
func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := c.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		probeCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if err := c.target.Ping(probeCtx); err != nil {
			c.log.Error().Str("checker", c.name).Err(err).Msg("health probe failed")
			c.healthy.Store(0)
			return
		}
		c.healthy.Store(1)
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// ServiceChecker aggregates component checkers into a single service health flag.
type ServiceChecker struct {
	healthy atomic.Int32
	deps    []Checker
	log     zerolog.Logger
}

func NewServiceChecker(log zerolog.Logger, deps ...Checker) *ServiceChecker {
	h := &ServiceChecker{deps: deps, log: log}
	h.healthy.Store(0)
	return h
}

// IsHealthy returns cached service health.
func (h *ServiceChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Start periodically evaluates dependency health and updates the service flag.
func (h *ServiceChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(0)
	eval := func() {
		all := true
		for _, c := range h.deps {
			if !c.IsHealthy() {
				all = false
			}
		}
		if all {
			h.healthy.Store(1)
		} else {
			h.healthy.Store(0)
		}
		cur := h.healthy.Load()
		if cur != prev {
			if cur == 1 {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Msg("service health: DOWN")
			}
			prev = cur
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}
