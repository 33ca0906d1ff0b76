package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocoeth/eth2-keyvault/internal/erc2335"
)

func writeKeystorePair(t *testing.T, keystoreDir, passwordDir, name string, valid bool) {
	t.Helper()
	if !valid {
		require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, name+".json"), []byte("{not json"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(passwordDir, name+".txt"), []byte("whatever"), 0o600))
		return
	}

	secret := make([]byte, 32)
	secret[31] = byte(len(name) + 1)
	password := []byte("correct horse battery staple")

	doc, err := erc2335.Encode(secret, password, erc2335.EncodeOptions{KDF: "pbkdf2"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, name+".json"), doc, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(passwordDir, name+".txt"), password, 0o600))
}

func TestScan_ResilientToOneCorruptFile(t *testing.T) {
	keystoreDir := t.TempDir()
	passwordDir := t.TempDir()

	writeKeystorePair(t, keystoreDir, passwordDir, "alice", true)
	writeKeystorePair(t, keystoreDir, passwordDir, "bob", false)
	writeKeystorePair(t, keystoreDir, passwordDir, "carol", true)
	require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, "README.md"), []byte("ignore me"), 0o600))

	s, err := New(Config{Concurrency: 2}, nil)
	require.NoError(t, err)
	defer s.Close()

	result, err := s.Scan(context.Background(), keystoreDir, passwordDir, nil)
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, "bob", result.Failures[0].Name)
}

func TestScan_ProgressCallback(t *testing.T) {
	keystoreDir := t.TempDir()
	passwordDir := t.TempDir()
	writeKeystorePair(t, keystoreDir, passwordDir, "alice", true)

	s, err := New(Config{Concurrency: 1}, nil)
	require.NoError(t, err)
	defer s.Close()

	var calls int
	_, err = s.Scan(context.Background(), keystoreDir, passwordDir, func(done, total int, name string) {
		calls++
		assert.Equal(t, 1, total)
		assert.Equal(t, "alice", name)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
