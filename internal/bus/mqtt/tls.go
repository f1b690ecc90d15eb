package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrCARequired is returned when a TLS broker URL has no pinned CA.
	ErrCARequired = errors.New("tls broker requires a CA certificate")
	// ErrInvalidCA is returned when the CA file contains no usable certificate.
	ErrInvalidCA = errors.New("no certificates found in CA file")
	// ErrClientCertRequired is returned when a TLS broker URL lacks the client key pair.
	ErrClientCertRequired = errors.New("tls broker requires a client certificate and key")
)

// NewTLSConfig trusts only the CA in caFile and presents the client key pair.
// The broker authenticates devices and services by certificate, so all three files are required.
func NewTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, ErrCARequired
	}

	if certFile == "" || keyFile == "" {
		return nil, ErrClientCertRequired
	}

	caPEM, err := os.ReadFile(filepath.Clean(caFile))
	if err != nil {
		return nil, fmt.Errorf("read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%s: %w", caFile, ErrInvalidCA)
	}

	certificate, err := tls.LoadX509KeyPair(filepath.Clean(certFile), filepath.Clean(keyFile))
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}

	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
