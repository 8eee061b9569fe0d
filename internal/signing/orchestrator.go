package signing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/auth"
	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/internal/documents"
	"digisign/portal-backend/internal/events"
	"digisign/portal-backend/pkg/pdf"
)

// DocumentStore persists signed documents for their owner.
type DocumentStore interface {
	Create(ctx context.Context, identity *auth.Identity, req documents.CreateRequest) (*documents.Document, error)
}

// SignRequest is one uploaded PDF plus what the signer entered.
type SignRequest struct {
	FileName  string
	Content   []byte
	Signer    SignerMeta
	Placement *pdf.Placement
}

// SignResult is the stamped PDF and the link burned into it.
type SignResult struct {
	DocumentID      string
	FileName        string
	Content         []byte
	VerificationURL string
	Persisted       bool
}

// Orchestrator runs the sign pipeline: choose an id, build the link, stamp
// the QR into page 1 and, for authenticated callers, persist the result.
type Orchestrator struct {
	origin    string
	caption   string
	qr        *QREncoder
	stamper   pdf.Stamper
	store     DocumentStore
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

type Options struct {
	PublicBaseURL string
	Caption       string
	QRSize        int
}

func NewOrchestrator(opts Options, stamper pdf.Stamper, store DocumentStore, publisher events.Publisher, logger *zap.Logger) *Orchestrator {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	caption := opts.Caption
	if caption == "" {
		caption = pdf.DefaultCaption
	}
	return &Orchestrator{
		origin:    opts.PublicBaseURL,
		caption:   caption,
		qr:        NewQREncoder(opts.QRSize),
		stamper:   stamper,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.New,
	}
}

// Sign stamps req. The id printed in the link is the id of the stored
// record. Anonymous callers get an inline-only link and nothing is persisted.
func (o *Orchestrator) Sign(ctx context.Context, req SignRequest, identity *auth.Identity) (*SignResult, error) {
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: empty upload", common.ErrMalformedDocument)
	}
	if strings.TrimSpace(req.Signer.Name) == "" {
		return nil, fmt.Errorf("%w: signer name is required", common.ErrValidation)
	}

	id := o.newID().String()
	signedAt := o.now()
	payload := NewPayload(id, req.Signer, signedAt)

	referenceID := ""
	if identity != nil {
		referenceID = id
	}
	link, err := BuildVerificationURL(o.origin, payload, referenceID)
	if err != nil {
		return nil, fmt.Errorf("build verification url: %w", err)
	}

	qr, err := o.qr.Encode(link)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	signed, err := o.stamper.Stamp(ctx, req.Content, qr, o.caption, req.Placement)
	if err != nil {
		return nil, err
	}

	result := &SignResult{
		DocumentID:      id,
		FileName:        "signed_" + baseName(req.FileName),
		Content:         signed,
		VerificationURL: link,
	}
	if identity == nil {
		o.logger.Info("Document signed anonymously", zap.String("document_id", id))
		return result, nil
	}

	if _, err := o.store.Create(ctx, identity, documents.CreateRequest{
		ID:           id,
		FileName:     baseName(req.FileName),
		Content:      signed,
		SignerName:   req.Signer.Name,
		LetterNumber: req.Signer.LetterNumber,
		Subject:      req.Signer.Subject,
	}); err != nil {
		o.logger.Error("Failed to persist signed document",
			zap.String("document_id", id),
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	result.Persisted = true

	if err := o.publisher.Publish(ctx, events.Event{
		Type:            events.TypeDocumentSigned,
		DocumentID:      id,
		UserID:          identity.UserID.String(),
		SignerName:      req.Signer.Name,
		VerificationURL: link,
		OccurredAt:      signedAt.UTC(),
	}); err != nil {
		o.logger.Warn("Failed to publish signing event", zap.String("document_id", id), zap.Error(err))
	}

	o.logger.Info("Document signed",
		zap.String("document_id", id),
		zap.String("user_id", identity.UserID.String()),
	)
	return result, nil
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "document.pdf"
	}
	return name
}
