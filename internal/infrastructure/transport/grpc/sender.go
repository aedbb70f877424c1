package transportgrpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/kvoloboi/staticinfo/internal/application/common"
	"github.com/kvoloboi/staticinfo/internal/domain"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/codec"
)

var (
	ErrStreamingQueueFull = errors.New("streaming queue full")
)

// ReportGrpcSender queues records and streams them to the sink over a single
// client stream, reopening it when it fails.
type ReportGrpcSender struct {
	conn   *grpc.ClientConn
	client ReportSinkClient
	logger *slog.Logger
	queue  chan domain.Record

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	backoff common.Backoff

	maxReconnectAttempts    int
	closeOnServerDisconnect bool

	closed atomic.Bool
}

func NewReportGrpcSender(
	conn *grpc.ClientConn, logger *slog.Logger, config *SenderConfig,
) (*ReportGrpcSender, error) {
	if conn == nil {
		return nil, errors.New("grpc connection is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := withDefaults(config)
	ctx, cancel := context.WithCancel(context.Background())

	sender := &ReportGrpcSender{
		conn:   conn,
		client: NewReportSinkClient(conn),
		logger: logger,

		queue: make(chan domain.Record, cfg.Buffer),

		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		backoff: cfg.Backoff,

		maxReconnectAttempts:    cfg.MaxReconnectAttempts,
		closeOnServerDisconnect: cfg.CloseOnServerDisconnect,
	}

	go sender.run()

	return sender, nil
}

// Send enqueues r for streaming. It returns io.ErrClosedPipe once the
// sender has given up on the sink.
func (s *ReportGrpcSender) Send(ctx context.Context, r domain.Record) error {
	if s.closed.Load() || s.ctx.Err() != nil {
		return io.ErrClosedPipe
	}

	select {
	case s.queue <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return io.ErrClosedPipe
	default:
		return ErrStreamingQueueFull
	}
}

// Close flushes queued records, closes the stream and the connection.
func (s *ReportGrpcSender) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	close(s.queue)
	<-s.done

	s.cancel()

	return s.conn.Close()
}

func (s *ReportGrpcSender) run() {
	defer close(s.done)

	for {
		stream, err := s.openWithRetry()
		if err != nil {
			s.logger.Error("cannot open stream, shutting down sender", "err", err)
			s.cancel()
			return
		}

		err = s.sendLoop(stream)
		if err == nil {
			return
		}
		s.logger.Warn("stream failed", "err", err)

		if s.closeOnServerDisconnect {
			s.logger.Warn("closeOnServerDisconnect enabled, stopping sender")
			s.cancel()
			return
		}
	}
}

func (s *ReportGrpcSender) openWithRetry() (StreamReportsClient, error) {
	attempt := 1

	for {
		stream, err := s.client.StreamReports(s.ctx)
		if err == nil {
			s.logger.Info("gRPC stream established")
			return stream, nil
		}

		if attempt > s.maxReconnectAttempts {
			return nil, io.ErrClosedPipe
		}

		delay := s.backoff.Next(attempt)

		s.logger.Warn(
			"failed to open gRPC stream",
			"attempt", attempt,
			"delay", delay,
			"err", err,
		)

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return nil, s.ctx.Err()
		}

		attempt++
	}
}

func (s *ReportGrpcSender) closeStream(stream StreamReportsClient) {
	ack, err := stream.CloseAndRecv()
	if err != nil {
		s.logger.Warn("CloseAndRecv failed", "err", err)
		return
	}
	s.logger.Info("stream closed", "accepted", ack.GetValue())
}

func (s *ReportGrpcSender) sendLoop(stream StreamReportsClient) error {
	defer s.closeStream(stream)

	for {
		select {
		case r, ok := <-s.queue:
			if !ok {
				return nil
			}

			b, err := codec.MarshalRecord(r)
			if err != nil {
				s.logger.Error("dropping unencodable record", "session", r.Session, "err", err)
				continue
			}

			if err := stream.Send(wrapperspb.Bytes(b)); err != nil {
				return err
			}

		case <-s.ctx.Done():
			return nil
		}
	}
}
