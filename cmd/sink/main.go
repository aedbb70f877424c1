package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/kvoloboi/staticinfo/cmd/sink/config"
	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/application/sink/ratelimit"
	"github.com/kvoloboi/staticinfo/internal/application/sink/reportlog"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/tlsconfig"
	transportgrpc "github.com/kvoloboi/staticinfo/internal/infrastructure/transport/grpc"
	transporthttp "github.com/kvoloboi/staticinfo/internal/infrastructure/transport/http"
)

type server interface {
	Run() error
	Shutdown(timeout time.Duration)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := config.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid cli parameters", "error", err)
		os.Exit(2)
	}
	logger.Info("starting sink", "config", cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("sink failed", "err", err)
		os.Exit(1)
	}

	logger.Info("sink shutdown complete")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	wal, err := reportlog.Open(cfg.Sink.LogPath, reportlog.WithCompression(cfg.Sink.Compress))
	if err != nil {
		return fmt.Errorf("open report log: %w", err)
	}
	defer wal.Close()

	logger.Info("report log opened", "path", cfg.Sink.LogPath, "next_seq", wal.Seq())

	ch := make(chan sink.RecordItem, cfg.Sink.QueueSize)

	baseIngestor := sink.NewChannelIngestor(ch, logger)
	ingestor := withRateLimits(baseIngestor, cfg.RateLimit)

	worker := sink.NewReportWorker(ch, wal, cfg.Batch, logger)

	tlsCfg, err := tlsconfig.ServerTLSConfig(cfg.Transport.TLS)
	if err != nil {
		return fmt.Errorf("setup tls: %w", err)
	}

	srv, err := newServer(ctx, cfg, ingestor, tlsCfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// the worker stops once the ingestor closes its channel, so everything
	// accepted before shutdown reaches the log
	g.Go(func() error {
		return worker.Run(context.Background())
	})

	g.Go(func() error {
		if err := srv.Run(); err != nil {
			return fmt.Errorf("%s server: %w", cfg.Transport.Type, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		srv.Shutdown(cfg.Sink.ShutdownTimeout)
		return ingestor.Close()
	})

	return g.Wait()
}

func withRateLimits(base sink.RecordIngestor, cfg config.RateLimitConfig) sink.RecordIngestor {
	var rules []ratelimit.RateRule
	if cfg.Messages.PerSecond > 0 {
		rules = append(rules,
			ratelimit.NewMsgRateRule(cfg.Messages.PerSecond, cfg.Messages.Burst),
		)
	}
	if cfg.Bytes.PerSecond > 0 {
		rules = append(rules,
			ratelimit.NewByteRateRule(cfg.Bytes.PerSecond, cfg.Bytes.Burst),
		)
	}
	if cfg.Sessions.PerSecond > 0 {
		rules = append(rules,
			ratelimit.NewSessionRateRule(cfg.Sessions.PerSecond, cfg.Sessions.Burst),
		)
	}

	if len(rules) == 0 {
		return base
	}
	return ratelimit.NewRateLimitedIngestor(base, ratelimit.NewIngestRatePolicy(rules...))
}

func newServer(
	ctx context.Context,
	cfg config.Config,
	ingestor sink.RecordIngestor,
	tlsCfg *tls.Config,
	logger *slog.Logger,
) (server, error) {
	switch cfg.Transport.Type {
	case "http":
		srv, err := transporthttp.NewHTTPServer(
			cfg.Transport.SinkAddress,
			transporthttp.NewHandler(ingestor, logger),
			tlsCfg,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("start http server: %w", err)
		}
		return srv, nil

	case "grpc":
		var opts []grpc.ServerOption
		if tlsCfg != nil {
			opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		}

		srv, err := transportgrpc.NewGRPCServer(ctx, cfg.Transport.SinkAddress, ingestor, logger, opts...)
		if err != nil {
			return nil, fmt.Errorf("start grpc server: %w", err)
		}
		return srv, nil

	default:
		return nil, fmt.Errorf("unknown transport type: %s", cfg.Transport.Type)
	}
}
