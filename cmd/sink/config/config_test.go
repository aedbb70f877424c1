package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseArgs(args ...string) Config {
	return parse(flag.NewFlagSet("sink", flag.ContinueOnError), args)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := parseArgs()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "grpc", cfg.Transport.Type)
	require.False(t, cfg.Sink.Compress)
}

func TestParseSinkFlags(t *testing.T) {
	cfg := parseArgs(
		"-sink.compress",
		"-transport.type", "http",
		"-ratelimit.session-msgs-per-sec", "2",
		"-ratelimit.session-msgs-burst", "4",
	)
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.Sink.Compress)
	require.Equal(t, RateRuleConfig{PerSecond: 2, Burst: 4}, cfg.RateLimit.Sessions)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "empty log path", args: []string{"-sink.log-path", ""}},
		{name: "zero batch", args: []string{"-batch.max-count", "0"}},
		{name: "burst without rate", args: []string{"-ratelimit.msgs-burst", "3"}},
		{name: "session burst without rate", args: []string{"-ratelimit.session-msgs-burst", "3"}},
		{name: "unknown transport", args: []string{"-transport.type", "quic"}},
		{name: "tls without ca", args: []string{"-transport.tls.ca", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, parseArgs(tt.args...).Validate())
		})
	}
}
