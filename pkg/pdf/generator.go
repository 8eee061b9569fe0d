package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Generator produces plain text PDFs. It backs the samplepdf command and
// provides fixture documents for stamping tests.
type Generator interface {
	Generate(ctx context.Context, opts GenerateOptions) ([]byte, error)
}

// GenerateOptions describes a generated document.
type GenerateOptions struct {
	Pages    int
	PageSize string // A4, Letter, Legal
	Text     string
	FontSize float64
}

// DefaultGenerateOptions returns a single A4 page with a heading line.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Pages:    1,
		PageSize: "A4",
		Text:     "Creating PDFs in Go is awesome!",
		FontSize: 30,
	}
}

type gofpdfGenerator struct{}

func NewGenerator() Generator {
	return &gofpdfGenerator{}
}

func (g *gofpdfGenerator) Generate(ctx context.Context, opts GenerateOptions) ([]byte, error) {
	if opts.Pages < 1 {
		return nil, fmt.Errorf("pages must be positive, got %d", opts.Pages)
	}
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 30
	}

	f := gofpdf.New("P", "pt", opts.PageSize, "")
	f.SetTextColor(0, 135, 181)
	for i := 1; i <= opts.Pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.AddPage()
		_, h := f.GetPageSize()
		f.SetFont("Times", "", opts.FontSize)
		f.Text(50, 4*opts.FontSize, opts.Text)
		f.SetFont("Times", "", 10)
		f.Text(50, h-30, fmt.Sprintf("Page %d of %d", i, opts.Pages))
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
