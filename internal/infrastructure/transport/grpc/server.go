package transportgrpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/codec"
)

type GRPCServer struct {
	server   *grpc.Server
	logger   *slog.Logger
	ingestor sink.RecordIngestor
	lis      net.Listener
	ctx      context.Context
}

func NewGRPCServer(
	ctx context.Context,
	addr string,
	ingestor sink.RecordIngestor,
	logger *slog.Logger,
	opts ...grpc.ServerOption,
) (*GRPCServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return NewGRPCServerOn(ctx, lis, ingestor, logger, opts...), nil
}

// NewGRPCServerOn serves on an existing listener.
func NewGRPCServerOn(
	ctx context.Context,
	lis net.Listener,
	ingestor sink.RecordIngestor,
	logger *slog.Logger,
	opts ...grpc.ServerOption,
) *GRPCServer {
	if logger == nil {
		logger = slog.Default()
	}

	grpcServer := grpc.NewServer(opts...)

	self := &GRPCServer{
		server:   grpcServer,
		ingestor: ingestor,
		lis:      lis,
		logger:   logger,
		ctx:      ctx,
	}

	RegisterReportSinkServer(grpcServer, self)

	return self
}

func (s *GRPCServer) Addr() net.Addr {
	return s.lis.Addr()
}

func (s *GRPCServer) StreamReports(stream StreamReportsServer) error {
	var received uint64

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("server shutting down, finishing stream", "received", received)
			return stream.SendAndClose(wrapperspb.UInt64(received))
		default:
		}

		msg, err := stream.Recv()
		if err == io.EOF {
			s.logger.Info("stream closed by client", "received", received)
			return stream.SendAndClose(wrapperspb.UInt64(received))
		}
		if err != nil {
			s.logger.Error("failed to receive report", "err", err)
			return err
		}

		record, err := codec.UnmarshalRecord(msg.GetValue())
		if err != nil {
			s.logger.Error("received malformed record", "err", err)
			return status.Errorf(codes.InvalidArgument, "malformed record: %v", err)
		}
		if _, err := sink.DecodeReport(record); err != nil {
			s.logger.Error("received malformed report", "err", err)
			return status.Error(codes.InvalidArgument, err.Error())
		}

		item := sink.RecordItem{Record: record, Size: record.Size()}
		if err := s.ingestor.Ingest(stream.Context(), item); err != nil {
			return err
		}

		received++
	}
}

// Run serves until the server is stopped. A stop initiated by Shutdown is
// not reported as an error.
func (s *GRPCServer) Run() error {
	err := s.server.Serve(s.lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

func (s *GRPCServer) Shutdown(timeout time.Duration) {
	s.logger.Info("initiating graceful shutdown of gRPC server")

	done := make(chan struct{})

	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped gracefully")
	case <-time.After(timeout):
		s.logger.Warn("graceful shutdown timed out; forcing stop")
		s.server.Stop()
	}
}
