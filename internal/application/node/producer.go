package node

import (
	"context"
	"log/slog"
	"time"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

// ReportProducer collects the static info report once, encodes it and hands
// the resulting record to the dispatcher queue.
type ReportProducer struct {
	collector ReportCollector
	session   domain.SessionID
	worker    domain.WorkerID
	out       chan<- domain.Record
	logger    *slog.Logger
	counters  *Counters
	now       func() time.Time
}

func NewProducer(
	collector ReportCollector,
	session domain.SessionID,
	worker domain.WorkerID,
	out chan<- domain.Record,
	logger *slog.Logger,
	counters *Counters,
) *ReportProducer {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = NewCounters()
	}

	return &ReportProducer{
		collector: collector,
		session:   session,
		worker:    worker,
		out:       out,
		logger:    logger,
		counters:  counters,
		now:       time.Now,
	}
}

// Run produces a single record. It blocks until the record is queued or ctx
// is done.
func (p *ReportProducer) Run(ctx context.Context) error {
	report, err := p.collector.Collect()
	if err != nil {
		p.logger.Error("failed to collect static info", "err", err)
		return err
	}

	if err := report.Validate(); err != nil {
		p.logger.Warn("static info report is inconsistent, sending as is", "err", err)
	}

	payload, err := report.Encode()
	if err != nil {
		p.logger.Error("failed to encode static info", "err", err)
		return err
	}

	record, err := domain.NewRecord(
		p.session.String(),
		p.worker.String(),
		domain.TypeStaticInfo,
		payload,
		p.now(),
	)
	if err != nil {
		return err
	}

	p.logger.Info("static info collected",
		"session", p.session,
		"worker", p.worker,
		"sections", report.Presence(),
		"bytes", len(payload),
	)

	select {
	case p.out <- record:
		p.counters.IncProduced()
		return nil
	case <-ctx.Done():
		p.counters.IncDropped()
		return ctx.Err()
	}
}
