package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kvoloboi/staticinfo/internal/domain"
	"github.com/kvoloboi/staticinfo/internal/domain/staticinfo"
)

type RecordItem struct {
	Record domain.Record
	Size   int
}

type RecordIngestor interface {
	Ingest(ctx context.Context, item RecordItem) error
	Close() error
}

// DecodeReport checks that a received record carries a well-formed static
// info report. Transports call it before ingesting.
func DecodeReport(r domain.Record) (*staticinfo.Report, error) {
	if r.TypeID != domain.TypeStaticInfo {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownType, r.TypeID)
	}
	report, err := staticinfo.Decode(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("malformed static info from %s/%s: %w", r.Session, r.Worker, err)
	}
	return report, nil
}

type ChannelIngestor struct {
	out    chan<- RecordItem
	logger *slog.Logger
}

func NewChannelIngestor(out chan<- RecordItem, logger *slog.Logger) *ChannelIngestor {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChannelIngestor{
		out:    out,
		logger: logger,
	}
}

func (i *ChannelIngestor) Ingest(ctx context.Context, item RecordItem) error {
	select {
	case i.out <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		i.logger.Warn("dropping record: channel full",
			"session", item.Record.Session,
			"worker", item.Record.Worker,
		)
		return nil
	}
}

func (i *ChannelIngestor) Close() error {
	close(i.out)
	return nil
}
