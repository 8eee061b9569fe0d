package pdf

import "github.com/jung-kurt/gofpdf"

// TextWidth measures s set in the Helvetica core font at size points.
func TextWidth(s string, size float64) float64 {
	f := gofpdf.New("P", "pt", "A4", "")
	f.SetFont("Helvetica", "", size)
	return f.GetStringWidth(s)
}
