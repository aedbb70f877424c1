package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

type BatchConfig struct {
	MaxCount      int
	MaxBytes      int
	FlushInterval time.Duration
}

// BatchAppender persists one batch of records.
type BatchAppender interface {
	Append(records []domain.Record) error
}

// ReportWorker batches records and appends them to the report log.
// Run must be called once; it returns when ctx is done or the input closes,
// after flushing what is buffered.
type ReportWorker struct {
	in     <-chan RecordItem
	log    BatchAppender
	cfg    BatchConfig
	logger *slog.Logger
}

func NewReportWorker(
	in <-chan RecordItem,
	log BatchAppender,
	cfg BatchConfig,
	logger *slog.Logger,
) *ReportWorker {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportWorker{
		in:     in,
		log:    log,
		cfg:    cfg,
		logger: logger,
	}
}

// Run flushes on count, size, or timer.
func (w *ReportWorker) Run(ctx context.Context) error {
	var (
		batch     []domain.Record
		batchSize int
		timer     = time.NewTimer(w.cfg.FlushInterval)
	)

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return w.flush(&batch, &batchSize)

		case item, ok := <-w.in:
			if !ok {
				return w.flush(&batch, &batchSize)
			}

			batch = append(batch, item.Record)
			batchSize += item.Size

			if len(batch) >= w.cfg.MaxCount ||
				batchSize >= w.cfg.MaxBytes {
				if err := w.flush(&batch, &batchSize); err != nil {
					return err
				}
				timer.Reset(w.cfg.FlushInterval)
			}

		case <-timer.C:
			if err := w.flush(&batch, &batchSize); err != nil {
				return err
			}
			timer.Reset(w.cfg.FlushInterval)
		}
	}
}

func (w *ReportWorker) flush(batch *[]domain.Record, batchSize *int) error {
	if len(*batch) == 0 {
		return nil
	}

	w.logger.Info("flushing report batch", "len", len(*batch), "bytes", *batchSize)

	if err := w.log.Append(*batch); err != nil {
		w.logger.Error("failed to flush report batch", "err", err)
		return err
	}

	// Clear slice contents but keep allocated capacity to avoid GC churn
	clear(*batch)
	*batch = (*batch)[:0]
	*batchSize = 0

	return nil
}
