package node

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/kvoloboi/staticinfo/internal/application/common"
	"github.com/kvoloboi/staticinfo/internal/domain"
)

type RecordDispatcher struct {
	queue      <-chan domain.Record
	sender     RecordSender
	maxRetries int
	backoff    common.Backoff
	logger     *slog.Logger
	counters   *Counters
	cancel     context.CancelFunc
	stopOnce   sync.Once
}

type DispatcherConfig struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	Backoff    common.Backoff
}

func NewRecordDispatcher(
	queue <-chan domain.Record,
	sender RecordSender,
	cfg DispatcherConfig,
	logger *slog.Logger,
	counters *Counters,
	cancel context.CancelFunc,
) *RecordDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = NewCounters()
	}
	if cancel == nil {
		cancel = func() {}
	}

	return &RecordDispatcher{
		queue:      queue,
		sender:     sender,
		logger:     logger,
		counters:   counters,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		cancel:     cancel,
	}
}

// Run delivers queued records until the queue is closed or ctx is done, then
// closes the sender.
func (d *RecordDispatcher) Run(ctx context.Context) {
	defer d.close()

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case r, ok := <-d.queue:
			if !ok {
				d.logger.Info("record queue closed")
				return
			}
			d.dispatch(ctx, r)
		}
	}
}

func (d *RecordDispatcher) dispatch(ctx context.Context, r domain.Record) {
	attempts := d.maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		err := d.sender.Send(ctx, r)
		if err == nil {
			d.counters.AddSent(r.Size())
			return
		}

		if errors.Is(err, io.ErrClosedPipe) {
			d.counters.IncFailed()
			d.stopOnce.Do(d.cancel)
			return
		}

		if attempt == attempts {
			d.counters.IncFailed()
			d.logger.Error(
				"failed to send record",
				"session", r.Session,
				"type", r.TypeID,
				"attempt", attempt,
				"err", err,
			)
			return
		}

		delay := d.backoff.Next(attempt)
		d.logger.Warn("send failed, retrying", "attempt", attempt, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.counters.IncFailed()
			return
		case <-timer.C:
		}
	}
}

func (d *RecordDispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		select {
		case r, ok := <-d.queue:
			if !ok {
				d.logger.Info("all records drained")
				return
			}
			d.dispatch(ctx, r)
		default:
			d.logger.Info("queue empty, drain complete")
			return
		}
	}
}

// close releases sender resources and logs final metrics.
func (d *RecordDispatcher) close() {
	d.logger.Info("dispatcher stopping")

	if err := d.sender.Close(); err != nil {
		d.logger.Warn("sender close failed", "err", err)
	}

	d.logger.Info("final dispatcher metrics",
		"total_sent", d.counters.GetSent(),
		"total_sent_bytes", d.counters.GetSentBytes(),
		"total_failed", d.counters.GetFailed(),
	)
}
