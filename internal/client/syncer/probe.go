package syncer

import (
	"context"
	"sync/atomic"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// PingProbe considers the network available when the remote answers a ping
// within Timeout.
type PingProbe struct {
	Remote  pinger
	Timeout time.Duration
}

func NewPingProbe(remote pinger, timeout time.Duration) *PingProbe {
	return &PingProbe{Remote: remote, Timeout: timeout}
}

func (p *PingProbe) Online(ctx context.Context) bool {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return p.Remote.Ping(ctx) == nil
}

// StaticProbe reports whatever was last Set.
type StaticProbe struct {
	online atomic.Bool
}

func NewStaticProbe(online bool) *StaticProbe {
	p := &StaticProbe{}
	p.online.Store(online)
	return p
}

func (p *StaticProbe) Set(online bool) { p.online.Store(online) }

func (p *StaticProbe) Online(context.Context) bool { return p.online.Load() }
