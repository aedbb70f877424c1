package ratelimit

import (
	"context"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
)

// RateLimitedIngestor waits on every rule of its policy before passing an
// item on.
type RateLimitedIngestor struct {
	next   sink.RecordIngestor
	policy *IngestRatePolicy
}

func NewRateLimitedIngestor(next sink.RecordIngestor, policy *IngestRatePolicy) *RateLimitedIngestor {
	return &RateLimitedIngestor{
		next:   next,
		policy: policy,
	}
}

func (r *RateLimitedIngestor) Ingest(ctx context.Context, item sink.RecordItem) error {
	if err := r.policy.Wait(ctx, item); err != nil {
		return err
	}

	return r.next.Ingest(ctx, item)
}

func (r *RateLimitedIngestor) Close() error {
	return r.next.Close()
}
