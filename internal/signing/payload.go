package signing

import "time"

// StatusValid is the only status ever written into a payload.
const StatusValid = "Valid"

// SignaturePayload is the signer metadata carried inline in a verification
// link. Field names match the links already printed on signed documents.
type SignaturePayload struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	LetterNumber string `json:"letterNumber"`
	Subject      string `json:"subject"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
}

// NewPayload stamps signedAt in ISO-8601 with millisecond precision.
func NewPayload(id string, meta SignerMeta, signedAt time.Time) *SignaturePayload {
	return &SignaturePayload{
		ID:           id,
		Name:         meta.Name,
		LetterNumber: meta.LetterNumber,
		Subject:      meta.Subject,
		Date:         signedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Reason:       meta.Reason,
		Status:       StatusValid,
	}
}

// SignerMeta is what the signer types into the form.
type SignerMeta struct {
	Name         string
	Reason       string
	LetterNumber string
	Subject      string
}
