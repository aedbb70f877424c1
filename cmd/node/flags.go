package main

import (
	"flag"
	"os"
	"strings"
	"time"
)

// StringSliceFlag collects comma separated values; the flag may repeat.
type StringSliceFlag []string

func (s *StringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *StringSliceFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

func defaultWorkerID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "worker"
	}
	return host
}

func ParseConfig() Config {
	return parseConfig(flag.CommandLine, os.Args[1:])
}

func parseConfig(fs *flag.FlagSet, args []string) Config {
	var cfg Config

	fs.StringVar(
		&cfg.Node.SessionID,
		"node.session-id",
		"",
		"session id (random UUID when empty)",
	)

	fs.StringVar(
		&cfg.Node.WorkerID,
		"node.worker-id",
		defaultWorkerID(),
		"worker id reported alongside the static info",
	)

	fs.IntVar(
		&cfg.Node.QueueSize,
		"node.queue-size",
		1,
		"record queue buffer size",
	)

	// ---- Collection ----
	fs.BoolVar(
		&cfg.Collect.Software.Enabled,
		"collect.software",
		true,
		"report software info",
	)

	fs.BoolVar(
		&cfg.Collect.Hardware,
		"collect.hardware",
		true,
		"report hardware info",
	)

	fs.BoolVar(
		&cfg.Collect.Model.Enabled,
		"collect.model",
		false,
		"report model info",
	)

	fs.StringVar(
		&cfg.Collect.Software.BackendClass,
		"node.backend",
		"",
		"compute backend name reported as software info",
	)

	fs.StringVar(
		&cfg.Collect.Software.DataTypeName,
		"node.dtype",
		"FLOAT",
		"default data type name reported as software info",
	)

	fs.StringVar(
		&cfg.Collect.Model.ClassName,
		"model.class",
		"",
		"model class name",
	)

	fs.StringVar(
		&cfg.Collect.Model.ConfigPath,
		"model.config",
		"",
		"path to the model configuration JSON",
	)

	fs.Var(
		(*StringSliceFlag)(&cfg.Collect.Model.ParamNames),
		"model.params",
		"comma separated parameter names (repeatable)",
	)

	fs.IntVar(
		&cfg.Collect.Model.NumLayers,
		"model.layers",
		0,
		"number of model layers",
	)

	fs.Int64Var(
		&cfg.Collect.Model.NumParams,
		"model.num-params",
		0,
		"number of model parameters",
	)

	// ---- Transport ----
	fs.StringVar(
		&cfg.Transport.Type,
		"transport.type",
		"grpc",
		"http or grpc",
	)

	fs.StringVar(
		&cfg.Transport.SinkAddress,
		"transport.sink-address",
		"localhost:9000",
		"sink address (host:port for grpc, base URL for http)",
	)

	fs.DurationVar(
		&cfg.Transport.Timeout,
		"transport.timeout",
		5*time.Second,
		"transport request timeout",
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
		"certs/node/node.pem",
		"path to client certificate (PEM)",
	)

	fs.StringVar(
		&cfg.Transport.TLS.KeyPath,
		"transport.tls.key",
		"certs/node/node.key",
		"path to client private key (PEM)",
	)

	fs.StringVar(
		&cfg.Transport.TLS.ServerName,
		"transport.tls.server-name",
		"staticinfo-sink",
		"TLS server name override (optional)",
	)

	fs.BoolVar(
		&cfg.Transport.TLS.InsecureSkipVerify,
		"transport.tls.insecure",
		false,
		"skip TLS verification (DEV ONLY)",
	)

	// ---- Retry ----
	fs.IntVar(
		&cfg.Retry.MaxRetries,
		"retry.max",
		5,
		"maximum retry attempts",
	)

	fs.DurationVar(
		&cfg.Retry.BaseDelay,
		"retry.base-delay",
		200*time.Millisecond,
		"initial retry backoff delay",
	)

	fs.DurationVar(
		&cfg.Retry.MaxDelay,
		"retry.max-delay",
		5*time.Second,
		"maximum retry backoff delay",
	)

	_ = fs.Parse(args)

	return cfg
}
