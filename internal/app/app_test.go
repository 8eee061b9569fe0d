package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/config"
	"digisign/portal-backend/pkg/storage"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger(config.LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestOpenBlobStore(t *testing.T) {
	blobs, err := OpenBlobStore(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, blobs)

	_, err = OpenBlobStore(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
