package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"digisign/portal-backend/internal/auth"
	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/internal/export"
)

// Service is the document store gateway: signed PDFs, their metadata and
// the access trail.
type Service interface {
	Create(ctx context.Context, identity *auth.Identity, req CreateRequest) (*Document, error)
	ListByOwner(ctx context.Context, identity *auth.Identity) ([]Document, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*PublicDocument, error)
	Download(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*File, error)
	View(ctx context.Context, id uuid.UUID) (*File, error)
	Locate(ctx context.Context, id uuid.UUID) (*Document, bool, error)
	Export(ctx context.Context, identity *auth.Identity, format export.Format, w io.Writer) error
	LogAccess(ctx context.Context, entry AccessEntry)
}

type documentService struct {
	repo    Repository
	storage *StorageProvider
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, storage *StorageProvider, logger *zap.Logger) Service {
	return &documentService{
		repo:    repo,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Create writes the blob first and the record second. A failed insert
// removes the blob again so no orphan is left behind.
func (s *documentService) Create(ctx context.Context, identity *auth.Identity, req CreateRequest) (*Document, error) {
	if identity == nil {
		return nil, common.ErrNotAuthenticated
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", common.ErrValidation)
	}
	if strings.TrimSpace(req.SignerName) == "" {
		return nil, fmt.Errorf("%w: signer name is required", common.ErrValidation)
	}

	docID := uuid.New()
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: document id must be a UUID", common.ErrValidation)
		}
		docID = id
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = "document.pdf"
	}

	now := s.now().UTC()
	key := s.storage.GenerateKey(docID, fileName, now)
	if err := s.storage.Upload(ctx, key, req.Content); err != nil {
		return nil, err
	}

	doc := &Document{
		ID:           docID,
		UserID:       identity.UserID,
		FileName:     fileName,
		FilePath:     key,
		SignerName:   strings.TrimSpace(req.SignerName),
		LetterNumber: optional(req.LetterNumber),
		Subject:      optional(req.Subject),
		SignedAt:     now,
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		if rmErr := s.storage.Remove(ctx, key); rmErr != nil {
			s.logger.Error("Failed to remove blob after insert failure",
				zap.String("key", key), zap.Error(rmErr))
		}
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	s.logger.Info("Document stored",
		zap.String("document_id", doc.ID.String()),
		zap.String("user_id", identity.UserID.String()),
		zap.Int("size", len(req.Content)),
	)
	return doc, nil
}

func (s *documentService) ListByOwner(ctx context.Context, identity *auth.Identity) ([]Document, error) {
	if identity == nil {
		return nil, common.ErrNotAuthenticated
	}
	docs, err := s.repo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (s *documentService) GetPublic(ctx context.Context, id uuid.UUID) (*PublicDocument, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := doc.Public()
	return &pub, nil
}

// Download is restricted to the owner of the document.
func (s *documentService) Download(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*File, error) {
	if identity == nil {
		return nil, common.ErrNotAuthenticated
	}
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != identity.UserID {
		return nil, fmt.Errorf("%w: document belongs to another user", common.ErrForbidden)
	}
	return s.read(ctx, doc)
}

// View is public so the verification page can embed the PDF.
func (s *documentService) View(ctx context.Context, id uuid.UUID) (*File, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, doc)
}

// Locate returns the record and whether its blob is retrievable.
func (s *documentService) Locate(ctx context.Context, id uuid.UUID) (*Document, bool, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	ok, err := s.storage.Exists(ctx, doc.FilePath)
	if err != nil {
		s.logger.Warn("Blob existence check failed",
			zap.String("document_id", id.String()), zap.Error(err))
		return doc, false, nil
	}
	return doc, ok, nil
}

func (s *documentService) Export(ctx context.Context, identity *auth.Identity, format export.Format, w io.Writer) error {
	docs, err := s.ListByOwner(ctx, identity)
	if err != nil {
		return err
	}

	table := export.Table{
		Title:   "Documents",
		Columns: []string{"ID", "File Name", "Signer", "Letter Number", "Subject", "Signed At"},
		Rows:    make([][]interface{}, 0, len(docs)),
	}
	for _, d := range docs {
		table.Rows = append(table.Rows, []interface{}{
			d.ID.String(), d.FileName, d.SignerName, d.LetterNumber, d.Subject, d.SignedAt,
		})
	}
	return export.Write(w, format, table)
}

// LogAccess records entry. Failures are logged and swallowed.
func (s *documentService) LogAccess(ctx context.Context, entry AccessEntry) {
	log := &DocumentAccessLog{
		ID:          uuid.New(),
		DocumentID:  entry.DocumentID,
		UserID:      entry.UserID,
		Action:      entry.Action,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		PerformedAt: s.now().UTC(),
	}
	if len(entry.Details) > 0 {
		if raw, err := json.Marshal(entry.Details); err == nil {
			log.Details = datatypes.JSON(raw)
		}
	}
	if err := s.repo.LogAccess(ctx, log); err != nil {
		s.logger.Warn("Failed to write access log",
			zap.String("document_id", entry.DocumentID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

func (s *documentService) read(ctx context.Context, doc *Document) (*File, error) {
	data, err := s.storage.Download(ctx, doc.FilePath)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Failed to read document blob",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
		return nil, err
	}
	return &File{Name: doc.FileName, Content: data}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
