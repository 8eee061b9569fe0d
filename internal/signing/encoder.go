package signing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	MinQRSize     = 80

	verifyPath = "/verify"
)

// BuildVerificationURL returns <origin>/verify?data=<json>[&id=<id>].
// With a nil payload only the id is carried (referenced link). At least one
// of payload and referenceID must be given.
func BuildVerificationURL(baseOrigin string, payload *SignaturePayload, referenceID string) (string, error) {
	origin := strings.TrimRight(strings.TrimSpace(baseOrigin), "/")
	if origin == "" {
		return "", errors.New("verification origin is empty")
	}
	if payload == nil && referenceID == "" {
		return "", errors.New("nothing to encode in verification link")
	}

	q := url.Values{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("serialize payload: %w", err)
		}
		q.Set("data", string(raw))
	}
	if referenceID != "" {
		q.Set("id", referenceID)
	}
	return origin + verifyPath + "?" + q.Encode(), nil
}

// QREncoder renders verification links as PNG QR codes.
type QREncoder struct {
	size int
}

func NewQREncoder(size int) *QREncoder {
	if size <= 0 {
		size = DefaultQRSize
	}
	if size < MinQRSize {
		size = MinQRSize
	}
	return &QREncoder{size: size}
}

// Encode returns a grayscale PNG of content at medium error correction.
func (e *QREncoder) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr content is empty")
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}

	src := q.Image(e.size)
	gray := image.NewGray(src.Bounds())
	draw.Draw(gray, gray.Bounds(), src, src.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}
