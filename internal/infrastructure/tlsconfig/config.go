package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrIncomplete = errors.New("tls enabled but cert paths are not fully set")

// Config describes mutual TLS between a node and the sink. Both sides
// present a certificate signed by the same CA.
type Config struct {
	Enabled            bool
	CACertPath         string
	CertPath           string
	KeyPath            string
	InsecureSkipVerify bool
	ServerName         string
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	var missing []string
	if c.CACertPath == "" {
		missing = append(missing, "ca")
	}
	if c.CertPath == "" {
		missing = append(missing, "cert")
	}
	if c.KeyPath == "" {
		missing = append(missing, "key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

func loadCertPool(caPath string) (*x509.CertPool, error) {
	caBytes, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read ca cert: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("no PEM certificates in %s", caPath)
	}

	return pool, nil
}

func load(cfg Config, role string) (tls.Certificate, *x509.CertPool, error) {
	if err := cfg.Validate(); err != nil {
		return tls.Certificate{}, nil, err
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return tls.Certificate{}, nil, fmt.Errorf("load %s cert: %w", role, err)
	}

	pool, err := loadCertPool(cfg.CACertPath)
	if err != nil {
		return tls.Certificate{}, nil, err
	}
	return cert, pool, nil
}

// ClientTLSConfig returns nil when TLS is disabled.
func ClientTLSConfig(cfg Config) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cert, pool, err := load(cfg, "client")
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		RootCAs:            pool,
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS13,
	}, nil
}

// ServerTLSConfig returns nil when TLS is disabled.
func ServerTLSConfig(cfg Config) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cert, pool, err := load(cfg, "server")
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}, nil
}
