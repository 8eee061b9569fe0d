package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/pkg/storage"
)

const pdfContentType = "application/pdf"

// StorageProvider maps documents onto blob keys.
type StorageProvider struct {
	blobs storage.BlobStore
}

func NewStorageProvider(blobs storage.BlobStore) *StorageProvider {
	return &StorageProvider{blobs: blobs}
}

// GenerateKey returns "<unix millis>-<document id>-<file name>" with the
// name reduced to a single safe path segment. The id keeps keys unique when
// two uploads share a name and a millisecond.
func (p *StorageProvider) GenerateKey(id uuid.UUID, fileName string, now time.Time) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), id, sanitizeFileName(fileName))
}

func (p *StorageProvider) Upload(ctx context.Context, key string, content []byte) error {
	if err := p.blobs.Put(ctx, key, content, pdfContentType); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return nil
}

func (p *StorageProvider) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := p.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, fmt.Errorf("%w: file not found on server", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return data, nil
}

func (p *StorageProvider) Exists(ctx context.Context, key string) (bool, error) {
	return p.blobs.Exists(ctx, key)
}

func (p *StorageProvider) Remove(ctx context.Context, key string) error {
	return p.blobs.Delete(ctx, key)
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "document.pdf"
	}
	return name
}
