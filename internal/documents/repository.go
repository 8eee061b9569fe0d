package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"digisign/portal-backend/internal/common"
)

type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Document, error)
	// ListPage walks all documents in id order, for maintenance jobs.
	ListPage(ctx context.Context, after uuid.UUID, limit int) ([]Document, error)

	LogAccess(ctx context.Context, log *DocumentAccessLog) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateDocument(ctx context.Context, doc *Document) error {
	err := r.db.WithContext(ctx).Create(doc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: document %s", common.ErrConflict, doc.ID)
	}
	return err
}

func (r *gormRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("signed_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *gormRepository) ListPage(ctx context.Context, after uuid.UUID, limit int) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("id > ?", after).
		Order("id ASC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

func (r *gormRepository) LogAccess(ctx context.Context, log *DocumentAccessLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
