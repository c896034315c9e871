package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSelfSignedCert writes a certificate for commonName and its key into dir.
func writeSelfSignedCert(t *testing.T, dir, commonName string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0644))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func leafCommonName(t *testing.T, loader *CertLoader) string {
	t.Helper()
	cert, err := loader.GetCertificate(nil)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return leaf.Subject.CommonName
}

func TestCertLoader(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeSelfSignedCert(t, dir, "first")

	loader, err := NewCertLoader(certFile, keyFile, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "first", leafCommonName(t, loader))

	// Replace the files and push their mtime past the load time.
	writeSelfSignedCert(t, dir, "second")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(certFile, future, future))

	// Still within the check interval.
	assert.Equal(t, "first", leafCommonName(t, loader))

	loader.mu.Lock()
	loader.lastCheck = time.Time{}
	loader.mu.Unlock()
	assert.Equal(t, "second", leafCommonName(t, loader))
}

func TestCertLoader_KeepsOldCertOnError(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeSelfSignedCert(t, dir, "first")

	loader, err := NewCertLoader(certFile, keyFile, slog.Default())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certFile, []byte("not a certificate"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(certFile, future, future))
	loader.checkInterval = 0

	assert.Equal(t, "first", leafCommonName(t, loader))

	require.NoError(t, os.Remove(keyFile))
	assert.Equal(t, "first", leafCommonName(t, loader))
}

func TestNewCertLoader_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCertLoader(filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"), slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load key pair")
}
