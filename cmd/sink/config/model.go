package config

import (
	"time"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/tlsconfig"
)

type Config struct {
	Sink      SinkConfig
	Batch     sink.BatchConfig
	RateLimit RateLimitConfig
	Transport TransportConfig
}

type SinkConfig struct {
	LogPath         string
	Compress        bool
	QueueSize       int
	ShutdownTimeout time.Duration
}

type RateLimitConfig struct {
	Messages RateRuleConfig
	Bytes    RateRuleConfig
	Sessions RateRuleConfig
}

type RateRuleConfig struct {
	PerSecond int
	Burst     int
}

type TransportConfig struct {
	Type        string
	SinkAddress string
	TLS         tlsconfig.Config
}
