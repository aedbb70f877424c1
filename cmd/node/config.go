package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/kvoloboi/staticinfo/internal/application/node"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/tlsconfig"
)

type Config struct {
	Node struct {
		SessionID string
		WorkerID  string
		QueueSize int
	}
	Collect   node.CollectorConfig
	Transport struct {
		Type        string
		SinkAddress string
		Timeout     time.Duration
		TLS         tlsconfig.Config
	}
	Retry struct {
		MaxRetries int
		BaseDelay  time.Duration
		MaxDelay   time.Duration
	}
}

func (c Config) Validate() error {
	if c.Node.WorkerID == "" {
		return errors.New("node.worker-id must not be empty")
	}

	if c.Node.QueueSize <= 0 {
		return errors.New("node.queue-size must be > 0")
	}

	if !c.Collect.Software.Enabled && !c.Collect.Hardware && !c.Collect.Model.Enabled {
		return errors.New("at least one of collect.software, collect.hardware, collect.model must be enabled")
	}

	if m := c.Collect.Model; m.Enabled {
		if m.NumLayers < 0 {
			return errors.New("model.layers must be >= 0")
		}
		if m.NumParams < 0 {
			return errors.New("model.num-params must be >= 0")
		}
	}

	switch c.Transport.Type {
	case "http", "grpc":
	default:
		return fmt.Errorf("unsupported transport.type: %q", c.Transport.Type)
	}

	if c.Transport.SinkAddress == "" {
		return errors.New("transport.sink-address must not be empty")
	}

	if c.Transport.Timeout <= 0 {
		return errors.New("transport.timeout must be > 0")
	}

	if err := c.Transport.TLS.Validate(); err != nil {
		return err
	}

	if c.Retry.MaxRetries < 0 {
		return errors.New("retry.max must be >= 0")
	}

	if c.Retry.BaseDelay <= 0 {
		return errors.New("retry.base-delay must be > 0")
	}

	if c.Retry.MaxDelay <= 0 {
		return errors.New("retry.max-delay must be > 0")
	}

	if c.Retry.BaseDelay > c.Retry.MaxDelay {
		return errors.New("retry.base-delay must be <= retry.max-delay")
	}

	return nil
}
