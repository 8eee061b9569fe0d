package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document is a persisted signed PDF. FilePath is the blob storage key.
type Document struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	FileName     string    `json:"fileName" gorm:"not null"`
	FilePath     string    `json:"filePath" gorm:"not null"`
	SignerName   string    `json:"signerName" gorm:"not null"`
	LetterNumber *string   `json:"letterNumber"`
	Subject      *string   `json:"subject"`
	SignedAt     time.Time `json:"signedAt" gorm:"not null"`
}

func (Document) TableName() string { return "documents" }

// PublicDocument is what anonymous callers may see: no owner, no storage key.
type PublicDocument struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	SignerName   string    `json:"signerName"`
	LetterNumber *string   `json:"letterNumber"`
	Subject      *string   `json:"subject"`
	SignedAt     time.Time `json:"signedAt"`
}

func (d *Document) Public() PublicDocument {
	return PublicDocument{
		ID:           d.ID,
		FileName:     d.FileName,
		SignerName:   d.SignerName,
		LetterNumber: d.LetterNumber,
		Subject:      d.Subject,
		SignedAt:     d.SignedAt,
	}
}

type AccessAction string

const (
	ActionView     AccessAction = "VIEW"
	ActionDownload AccessAction = "DOWNLOAD"
	ActionVerify   AccessAction = "VERIFY"
)

type DocumentAccessLog struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	DocumentID  uuid.UUID      `json:"documentId" gorm:"type:uuid;not null"`
	UserID      *uuid.UUID     `json:"userId,omitempty" gorm:"type:uuid"`
	Action      AccessAction   `json:"action" gorm:"not null"`
	IPAddress   string         `json:"ipAddress"`
	UserAgent   string         `json:"userAgent"`
	Details     datatypes.JSON `json:"details,omitempty"`
	PerformedAt time.Time      `json:"performedAt"`
}

func (DocumentAccessLog) TableName() string { return "document_access_logs" }

// CreateRequest carries a signed PDF to persist. ID is optional; when set it
// must be a UUID and becomes the document id.
type CreateRequest struct {
	ID           string
	FileName     string
	Content      []byte
	SignerName   string
	LetterNumber string
	Subject      string
}

// File is a stored PDF ready to stream.
type File struct {
	Name    string
	Content []byte
}

// AccessEntry describes one read of a document for the access log.
type AccessEntry struct {
	DocumentID uuid.UUID
	UserID     *uuid.UUID
	Action     AccessAction
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{}
}
