package common

import (
	rand "math/rand/v2"
	"time"
)

// Backoff computes jittered exponential retry delays.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Rand      *rand.Rand
}

func NewBackoff(base, max time.Duration) Backoff {
	seed := uint64(time.Now().UnixNano())

	return Backoff{
		BaseDelay: base,
		MaxDelay:  max,

		Rand: rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Next returns the delay before retry number attempt (1-based), capped at
// MaxDelay before jitter is applied.
func (b Backoff) Next(attempt int) time.Duration {
	d := b.MaxDelay
	// past 62 doublings the shift overflows; the cap applies anyway
	if attempt < 62 {
		if shifted := b.BaseDelay << attempt; shifted > 0 && shifted < d {
			d = shifted
		}
	}

	// jitter in range [0.5, 1.5)
	var f float64
	if b.Rand != nil {
		f = b.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	jitter := 0.5 + f

	return time.Duration(float64(d) * jitter)
}
