package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/internal/documents"
	"digisign/portal-backend/internal/signing"
)

// Mode reports which path produced a SignerView.
type Mode string

const (
	ModeReferenced Mode = "referenced"
	ModeInline     Mode = "inline"
)

// SignerView is what the verification page renders.
type SignerView struct {
	Mode             Mode   `json:"mode"`
	DocumentID       string `json:"id,omitempty"`
	Name             string `json:"name"`
	LetterNumber     string `json:"letterNumber"`
	Subject          string `json:"subject"`
	Date             string `json:"date"`
	Reason           string `json:"reason"`
	Status           string `json:"status"`
	FileName         string `json:"fileName,omitempty"`
	PreviewAvailable bool   `json:"previewAvailable"`
	ViewURL          string `json:"viewUrl,omitempty"`
}

// DocumentLocator finds a stored document and reports whether its bytes can
// still be served.
type DocumentLocator interface {
	Locate(ctx context.Context, id uuid.UUID) (*documents.Document, bool, error)
}

type Resolver struct {
	locator DocumentLocator
	logger  *zap.Logger
}

func NewResolver(locator DocumentLocator, logger *zap.Logger) *Resolver {
	return &Resolver{locator: locator, logger: logger}
}

// Resolve returns ErrNotFound for unknown ids and ErrInvalidPayload for
// inline data that is not a signature payload.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*SignerView, error) {
	switch q := q.(type) {
	case Referenced:
		return r.resolveReferenced(ctx, q)
	case Inline:
		return resolveInline(q)
	default:
		return nil, fmt.Errorf("%w: unsupported query %T", common.ErrInvalidPayload, q)
	}
}

func (r *Resolver) resolveReferenced(ctx context.Context, q Referenced) (*SignerView, error) {
	id, err := uuid.Parse(q.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: document not found", common.ErrNotFound)
	}

	doc, available, err := r.locator.Locate(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			r.logger.Error("Document lookup failed", zap.String("document_id", q.ID), zap.Error(err))
		}
		return nil, err
	}

	view := &SignerView{
		Mode:             ModeReferenced,
		DocumentID:       doc.ID.String(),
		Name:             doc.SignerName,
		LetterNumber:     deref(doc.LetterNumber),
		Subject:          deref(doc.Subject),
		Date:             doc.SignedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Status:           signing.StatusValid,
		FileName:         doc.FileName,
		PreviewAvailable: available,
	}
	if available {
		view.ViewURL = "/api/v1/documents/" + doc.ID.String() + "/view"
	}
	return view, nil
}

// resolveInline accepts the payload JSON as delivered, or with one more
// layer of percent-encoding as some clients double-encode it.
func resolveInline(q Inline) (*SignerView, error) {
	payload, err := decodePayload(q.Raw)
	if err != nil {
		unescaped, uerr := url.QueryUnescape(q.Raw)
		if uerr != nil || unescaped == q.Raw {
			return nil, fmt.Errorf("%w: invalid verification data", common.ErrInvalidPayload)
		}
		if payload, err = decodePayload(unescaped); err != nil {
			return nil, fmt.Errorf("%w: invalid verification data", common.ErrInvalidPayload)
		}
	}

	return &SignerView{
		Mode:         ModeInline,
		DocumentID:   payload.ID,
		Name:         payload.Name,
		LetterNumber: payload.LetterNumber,
		Subject:      payload.Subject,
		Date:         payload.Date,
		Reason:       payload.Reason,
		Status:       payload.Status,
	}, nil
}

func decodePayload(raw string) (*signing.SignaturePayload, error) {
	var p signing.SignaturePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.New("payload has no signer name")
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
