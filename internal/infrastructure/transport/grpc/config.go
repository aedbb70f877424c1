package transportgrpc

import (
	"time"

	"github.com/kvoloboi/staticinfo/internal/application/common"
)

type SenderConfig struct {
	MaxReconnectAttempts    int
	Backoff                 common.Backoff
	CloseOnServerDisconnect bool
	// Buffer is the number of records queued ahead of the stream. A node
	// produces one report per run, so cmd/node sizes it from node.queue-size.
	Buffer int
}

func defaultSenderConfig() SenderConfig {
	return SenderConfig{
		MaxReconnectAttempts:    5,
		Backoff:                 common.NewBackoff(100*time.Millisecond, 5*time.Second),
		CloseOnServerDisconnect: false,
		Buffer:                  1,
	}
}

// withDefaults fills unset fields of c from defaultSenderConfig. A nil c
// yields the defaults.
func withDefaults(c *SenderConfig) SenderConfig {
	def := defaultSenderConfig()
	if c == nil {
		return def
	}

	cfg := *c
	if cfg.MaxReconnectAttempts < 0 {
		cfg.MaxReconnectAttempts = 0
	}
	if cfg.Backoff.BaseDelay <= 0 || cfg.Backoff.MaxDelay <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	return cfg
}
