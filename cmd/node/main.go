package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kvoloboi/staticinfo/internal/application/common"
	"github.com/kvoloboi/staticinfo/internal/application/node"
	"github.com/kvoloboi/staticinfo/internal/domain"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/hwinfo"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/tlsconfig"
	transportgrpc "github.com/kvoloboi/staticinfo/internal/infrastructure/transport/grpc"
	transporthttp "github.com/kvoloboi/staticinfo/internal/infrastructure/transport/http"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	counters := node.NewCounters()

	cfg := ParseConfig()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid cli parameters", "error", err)
		return 2
	}

	session, worker, err := identity(cfg)
	if err != nil {
		logger.Error("invalid node identity", "error", err)
		return 2
	}

	queue := make(chan domain.Record, cfg.Node.QueueSize)

	collector := node.NewCollector(cfg.Collect, hwinfo.Probe)
	producer := node.NewProducer(collector, session, worker, queue, logger, counters)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sender, err := createSenderFrom(cfg, logger)
	if err != nil {
		logger.Error("failed to create sender", "error", err)
		return 1
	}

	dispatcher := node.NewRecordDispatcher(
		queue,
		sender,
		node.DispatcherConfig{
			MaxRetries: cfg.Retry.MaxRetries,
			Backoff:    common.NewBackoff(cfg.Retry.BaseDelay, cfg.Retry.MaxDelay),
		},
		logger,
		counters,
		cancel,
	)

	dispatcherDone := make(chan struct{})

	go func() {
		dispatcher.Run(ctx)
		close(dispatcherDone)
	}()

	produceErr := producer.Run(ctx)

	// the report is produced once; closing the queue lets the dispatcher
	// deliver it and stop
	close(queue)
	<-dispatcherDone

	if produceErr != nil || counters.GetFailed() > 0 {
		logger.Error("static info was not delivered",
			"produced", counters.GetProduced(),
			"failed", counters.GetFailed(),
		)
		return 1
	}

	logger.Info("static info node done", "session", session, "worker", worker)
	return 0
}

func identity(cfg Config) (domain.SessionID, domain.WorkerID, error) {
	session := domain.RandomSessionID()
	if cfg.Node.SessionID != "" {
		var err error
		if session, err = domain.NewSessionID(cfg.Node.SessionID); err != nil {
			return domain.SessionID{}, domain.WorkerID{}, err
		}
	}

	worker, err := domain.NewWorkerID(cfg.Node.WorkerID)
	if err != nil {
		return domain.SessionID{}, domain.WorkerID{}, err
	}
	return session, worker, nil
}

func createSenderFrom(cfg Config, logger *slog.Logger) (node.RecordSender, error) {
	switch cfg.Transport.Type {
	case "http":
		return createHttpSender(cfg, logger)
	case "grpc":
		return createGrpcSender(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown transport type: %s", cfg.Transport.Type)
	}
}

func createHttpSender(cfg Config, logger *slog.Logger) (node.RecordSender, error) {
	tls, err := tlsconfig.ClientTLSConfig(cfg.Transport.TLS)
	if err != nil {
		logger.Error("failed to setup tls config", "err", err)
		return nil, err
	}

	return transporthttp.NewReportHttpSender(
		cfg.Transport.SinkAddress,
		logger,
		transporthttp.WithTimeout(cfg.Transport.Timeout),
		transporthttp.WithTLS(tls),
	)
}

func createGrpcSender(cfg Config, logger *slog.Logger) (node.RecordSender, error) {
	tls, err := tlsconfig.ClientTLSConfig(cfg.Transport.TLS)
	if err != nil {
		logger.Error("failed to setup tls config", "err", err)
		return nil, err
	}
	var opts grpc.DialOption
	if tls != nil {
		opts = grpc.WithTransportCredentials(credentials.NewTLS(tls))
	} else {
		opts = grpc.WithTransportCredentials(insecure.NewCredentials())
	}

	conn, err := grpc.NewClient(cfg.Transport.SinkAddress, opts)
	if err != nil {
		return nil, err
	}
	return transportgrpc.NewReportGrpcSender(conn, logger, &transportgrpc.SenderConfig{
		MaxReconnectAttempts: cfg.Retry.MaxRetries,
		Backoff:              common.NewBackoff(cfg.Retry.BaseDelay, cfg.Retry.MaxDelay),
		Buffer:               cfg.Node.QueueSize,
	})
}
