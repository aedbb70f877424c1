package config

import (
	"flag"
	"os"
	"time"
)

func Parse() Config {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) Config {
	var cfg Config

	// Sink
	fs.StringVar(
		&cfg.Sink.LogPath,
		"sink.log-path",
		"./staticinfo.wal",
		"path to report WAL file",
	)

	fs.BoolVar(
		&cfg.Sink.Compress,
		"sink.compress",
		false,
		"zstd-compress batches written to the report log",
	)

	fs.IntVar(
		&cfg.Sink.QueueSize,
		"sink.queue-size",
		1000,
		"record channel buffer size",
	)

	fs.DurationVar(
		&cfg.Sink.ShutdownTimeout,
		"sink.shutdown-timeout",
		5*time.Second,
		"server shutdown timeout",
	)

	// Batch
	fs.IntVar(
		&cfg.Batch.MaxCount,
		"batch.max-count",
		100,
		"max records per batch",
	)

	fs.IntVar(
		&cfg.Batch.MaxBytes,
		"batch.max-bytes",
		1<<20,
		"max batch payload size in bytes",
	)

	fs.DurationVar(
		&cfg.Batch.FlushInterval,
		"batch.flush-interval",
		time.Second,
		"max time before batch is flushed",
	)

	// Rate limit: messages
	fs.IntVar(
		&cfg.RateLimit.Messages.PerSecond,
		"ratelimit.msgs-per-sec",
		0,
		"max messages per second (0 = unlimited)",
	)

	fs.IntVar(
		&cfg.RateLimit.Messages.Burst,
		"ratelimit.msgs-burst",
		0,
		"burst size for message rate limiter",
	)

	// Rate limit: bytes
	fs.IntVar(
		&cfg.RateLimit.Bytes.PerSecond,
		"ratelimit.bytes-per-sec",
		0,
		"bytes per second rate limit (0 = unlimited)",
	)

	fs.IntVar(
		&cfg.RateLimit.Bytes.Burst,
		"ratelimit.bytes-burst",
		0,
		"burst size for byte rate limiter",
	)

	// Rate limit: per session
	fs.IntVar(
		&cfg.RateLimit.Sessions.PerSecond,
		"ratelimit.session-msgs-per-sec",
		0,
		"max messages per second from one session (0 = unlimited)",
	)

	fs.IntVar(
		&cfg.RateLimit.Sessions.Burst,
		"ratelimit.session-msgs-burst",
		0,
		"burst size for the per-session limiter",
	)

	// Transport
	fs.StringVar(
		&cfg.Transport.Type,
		"transport.type",
		"grpc",
		"http or grpc",
	)

	fs.StringVar(
		&cfg.Transport.SinkAddress,
		"transport.sink-address",
		":9000",
		"address to listen on",
	)

	// ---- TLS flags ----
	fs.BoolVar(
		&cfg.Transport.TLS.Enabled,
		"transport.tls.enabled",
		true,
		"enable TLS/mTLS for transport",
	)

	fs.StringVar(
		&cfg.Transport.TLS.CACertPath,
		"transport.tls.ca",
		"certs/ca/ca.pem",
		"path to CA certificate (PEM)",
	)

	fs.StringVar(
		&cfg.Transport.TLS.CertPath,
		"transport.tls.cert",
		"certs/sink/sink.pem",
		"path to server certificate (PEM)",
	)

	fs.StringVar(
		&cfg.Transport.TLS.KeyPath,
		"transport.tls.key",
		"certs/sink/sink.key",
		"path to server private key (PEM)",
	)

	_ = fs.Parse(args)

	return cfg
}
