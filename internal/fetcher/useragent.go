package fetcher

import (
	"math/rand/v2"
	"sync/atomic"
)

// DefaultUserAgents is used when the config lists none.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// UserAgentPool hands out User-Agent strings, either round robin or at random.
// It is safe for concurrent use.
type UserAgentPool struct {
	uas     []string
	random  bool
	counter atomic.Uint64
}

// NewUserAgentPool creates a pool. An empty list falls back to DefaultUserAgents.
func NewUserAgentPool(uas []string, random bool) *UserAgentPool {
	if len(uas) == 0 {
		uas = DefaultUserAgents
	}
	copied := make([]string, len(uas))
	copy(copied, uas)
	return &UserAgentPool{uas: copied, random: random}
}

// Next returns the next User-Agent.
func (p *UserAgentPool) Next() string {
	if p.random {
		return p.uas[rand.IntN(len(p.uas))]
	}
	idx := p.counter.Add(1) - 1
	return p.uas[idx%uint64(len(p.uas))]
}

// Len returns the pool size.
func (p *UserAgentPool) Len() int { return len(p.uas) }
