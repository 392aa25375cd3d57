package source

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	digits     = "0123456789"
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	hexChars   = "0123456789abcdef"
	videoID    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
)

// Faker generates placeholder values. A seeded Faker is deterministic.
// It is safe for concurrent use.
type Faker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFaker returns a Faker seeded with seed.
func NewFaker(seed uint64) *Faker {
	return &Faker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomFaker returns a Faker seeded from the runtime random source.
func NewRandomFaker() *Faker {
	return NewFaker(rand.Uint64())
}

// Between returns a random int in [lo, hi].
func (f *Faker) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo + f.rng.IntN(hi-lo+1)
}

// Float returns a random float in [lo, hi).
func (f *Faker) Float(lo, hi float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo + f.rng.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.Float(0, 1) < p
}

// Pick returns a random element of items.
func (f *Faker) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[f.Between(0, len(items)-1)]
}

// Sample returns n distinct random elements of items.
func (f *Faker) Sample(items []string, n int) []string {
	f.mu.Lock()
	perm := f.rng.Perm(len(items))
	f.mu.Unlock()
	n = min(n, len(items))
	out := make([]string, n)
	for i := range n {
		out[i] = items[perm[i]]
	}
	return out
}

// String returns n random characters from alphabet.
func (f *Faker) String(alphabet string, n int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[f.rng.IntN(len(alphabet))])
	}
	return b.String()
}

// Digits returns n random decimal digits.
func (f *Faker) Digits(n int) string { return f.String(digits, n) }

// Alnum returns n random lowercase alphanumerics.
func (f *Faker) Alnum(n int) string { return f.String(lowerAlnum, n) }

// Hex returns n random hex digits.
func (f *Faker) Hex(n int) string { return f.String(hexChars, n) }

// DaysAgo returns now minus a random number of days in [lo, hi].
func (f *Faker) DaysAgo(now time.Time, lo, hi int) time.Time {
	return now.AddDate(0, 0, -f.Between(lo, hi))
}

// fill substitutes {keyword} and {year} in a template.
func fill(template, keyword string, now time.Time) string {
	return strings.NewReplacer(
		"{keyword}", keyword,
		"{year}", strconv.Itoa(now.Year()),
	).Replace(template)
}

var (
	slugStrip  = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)
	spaceRun   = regexp.MustCompile(`\s+`)
	handleChar = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// slugify lowercases s, joins words with dashes and drops other punctuation.
// Letters and digits of any script are kept.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRun.ReplaceAllString(s, "-")
	return slugStrip.ReplaceAllString(s, "")
}

// squash collapses whitespace runs.
func squash(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
