package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
)

type IngestRatePolicy struct {
	rules []RateRule
}

func NewIngestRatePolicy(rules ...RateRule) *IngestRatePolicy {
	return &IngestRatePolicy{
		rules: rules,
	}
}

func (l *IngestRatePolicy) Wait(ctx context.Context, item sink.RecordItem) error {
	for _, rule := range l.rules {
		if err := rule.Wait(ctx, item); err != nil {
			return err
		}
	}

	return nil
}

type RateRule interface {
	Wait(ctx context.Context, item sink.RecordItem) error
}

// ByteRateRule limits payload bytes per second. An item larger than the
// burst consumes the whole burst instead of failing outright.
type ByteRateRule struct {
	limiter *rate.Limiter
}

func NewByteRateRule(bytesPerSec, burstBytes int) *ByteRateRule {
	return &ByteRateRule{
		limiter: rate.NewLimiter(
			rate.Limit(bytesPerSec),
			max(burstBytes, 1),
		),
	}
}

func (r *ByteRateRule) Wait(ctx context.Context, item sink.RecordItem) error {
	return r.limiter.WaitN(ctx, min(max(item.Size, 1), r.limiter.Burst()))
}

type MsgRateRule struct {
	limiter *rate.Limiter
}

func NewMsgRateRule(msgsPerSec, burstMsgs int) *MsgRateRule {
	return &MsgRateRule{
		limiter: rate.NewLimiter(
			rate.Limit(msgsPerSec),
			max(burstMsgs, 1),
		),
	}
}

func (r *MsgRateRule) Wait(ctx context.Context, _ sink.RecordItem) error {
	return r.limiter.Wait(ctx)
}

// SessionRateRule gives every session its own message limiter, so one node
// re-sending its report cannot starve the others.
type SessionRateRule struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewSessionRateRule(msgsPerSec, burstMsgs int) *SessionRateRule {
	return &SessionRateRule{
		limit:    rate.Limit(msgsPerSec),
		burst:    max(burstMsgs, 1),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (r *SessionRateRule) limiter(session string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[session]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[session] = l
	}
	return l
}

func (r *SessionRateRule) Wait(ctx context.Context, item sink.RecordItem) error {
	return r.limiter(item.Record.Session.String()).Wait(ctx)
}
