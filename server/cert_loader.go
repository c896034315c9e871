package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const defaultCertCheckInterval = time.Minute

// CertLoader serves a TLS certificate that is reloaded from disk when the
// certificate or key file changes. Files are checked at most once per
// checkInterval, during a handshake.
type CertLoader struct {
	certFile      string
	keyFile       string
	checkInterval time.Duration
	logger        *slog.Logger

	mu        sync.RWMutex
	cert      *tls.Certificate
	loadedAt  time.Time
	lastCheck time.Time
}

// NewCertLoader creates a new CertLoader and loads the initial certificate.
func NewCertLoader(certFile, keyFile string, logger *slog.Logger) (*CertLoader, error) {
	l := &CertLoader{
		certFile:      certFile,
		keyFile:       keyFile,
		checkInterval: defaultCertCheckInterval,
		logger:        logger,
	}

	if err := l.reload(); err != nil {
		return nil, err
	}
	l.lastCheck = time.Now()
	return l, nil
}

// GetCertificate is a callback for tls.Config.GetCertificate.
// On any error the previously loaded certificate keeps being served.
func (l *CertLoader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	l.mu.RLock()
	if time.Since(l.lastCheck) < l.checkInterval {
		defer l.mu.RUnlock()
		return l.cert, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another handshake may have checked while we waited for the lock.
	if time.Since(l.lastCheck) < l.checkInterval {
		return l.cert, nil
	}
	l.lastCheck = time.Now()

	changed, err := l.changedSinceLoad()
	if err != nil {
		l.logger.Error("failed to stat certificate files", "error", err)
		return l.cert, nil
	}
	if changed {
		if err := l.reload(); err != nil {
			l.logger.Error("failed to reload certificate", "error", err)
		}
	}
	return l.cert, nil
}

func (l *CertLoader) changedSinceLoad() (bool, error) {
	for _, path := range []string{l.certFile, l.keyFile} {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		if info.ModTime().After(l.loadedAt) {
			return true, nil
		}
	}
	return false, nil
}

// reload must be called with mu held, or before l is shared.
func (l *CertLoader) reload() error {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}

	l.cert = &cert
	l.loadedAt = time.Now()
	l.logger.Info("loaded tls certificate", "cert", l.certFile, "key", l.keyFile)
	return nil
}
