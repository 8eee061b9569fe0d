package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"digisign/portal-backend/internal/common"
)

// DefaultCaption is stamped next to the QR marker.
const DefaultCaption = "Dokumen ini ditandatangani secara elektronik"

// Stamper burns a verification marker into the first page of a PDF.
type Stamper interface {
	Stamp(ctx context.Context, document, qrPNG []byte, caption string, placement *Placement) ([]byte, error)
}

type pdfcpuStamper struct{}

func NewStamper() Stamper {
	api.DisableConfigDir()
	return &pdfcpuStamper{}
}

// Stamp loads document, draws qrPNG at placement (or the bottom-right
// default) on page 1 and the caption beside it, and returns the rewritten
// PDF. Input that is not a loadable PDF fails with ErrMalformedDocument.
func (s *pdfcpuStamper) Stamp(ctx context.Context, document, qrPNG []byte, caption string, placement *Placement) ([]byte, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("%w: empty input", common.ErrMalformedDocument)
	}

	dims, err := api.PageDims(bytes.NewReader(document), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: no pages", common.ErrMalformedDocument)
	}

	qr, _, err := image.DecodeConfig(bytes.NewReader(qrPNG))
	if err != nil {
		return nil, fmt.Errorf("decode qr image: %w", err)
	}
	if qr.Width == 0 {
		return nil, fmt.Errorf("decode qr image: zero width")
	}

	marker := ToPDFSpace(dims[0].Width, dims[0].Height, placement)

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(qrPNG), imageDescription(marker, qr.Width), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build qr stamp: %w", err)
	}
	out, err := addToFirstPage(document, wm)
	if err != nil {
		return nil, err
	}

	if caption == "" {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, y := CaptionOrigin(marker, TextWidth(caption, CaptionFontSize), CaptionFontSize)
	wm, err = api.TextWatermark(caption, textDescription(x, y), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build caption stamp: %w", err)
	}
	return addToFirstPage(out, wm)
}

// PageCount reports the number of pages in document.
func PageCount(document []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(document), newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}
	return n, nil
}

// pdfcpu mutates the configuration per command, so each call gets its own.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func addToFirstPage(document []byte, wm *model.Watermark) ([]byte, error) {
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(document), &out, []string{"1"}, wm, newConfiguration()); err != nil {
		return nil, fmt.Errorf("stamp page 1: %w", err)
	}
	return out.Bytes(), nil
}

// imageDescription anchors the stamp's lower-left corner at the marker
// origin and scales the square raster to the marker side.
func imageDescription(marker Rect, rasterWidth int) string {
	scale := marker.Width / float64(rasterWidth)
	return fmt.Sprintf("position:bl, offset:%s %s, scalefactor:%s abs, rotation:0, opacity:1",
		formatFloat(marker.X), formatFloat(marker.Y), strconv.FormatFloat(scale, 'f', 4, 64))
}

func textDescription(x, y float64) string {
	return fmt.Sprintf("fontname:Helvetica, points:%d, position:bl, offset:%s %s, scalefactor:1 abs, rotation:0, opacity:1",
		CaptionFontSize, formatFloat(x), formatFloat(y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
