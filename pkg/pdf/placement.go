package pdf

import "math"

// Marker defaults in native page units (points).
const (
	DefaultMarkerSize   = 100.0
	DefaultMarkerMargin = 20.0
	CaptionGap          = 10.0
	CaptionFontSize     = 9
)

// Placement is a marker position in UI space: origin at the top-left corner
// of the page, already divided by the viewer zoom so units are native page
// units. Page is carried for completeness; only page 0 is ever stamped.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Page   int     `json:"page,omitempty"`
}

// Rect is an axis-aligned box in PDF space (origin bottom-left).
type Rect struct {
	X, Y, Width, Height float64
}

// ToPDFSpace converts a UI placement on a page of the given size into the
// PDF-space rectangle of the marker. The QR code is square, so it is fitted
// into the requested box as a square of side min(width, height) anchored at
// the box's top-left corner. A nil placement yields the bottom-right
// default. No clamping is done: out-of-page requests stay out of page.
func ToPDFSpace(pageWidth, pageHeight float64, p *Placement) Rect {
	if p == nil {
		return Rect{
			X:      pageWidth - DefaultMarkerSize - DefaultMarkerMargin,
			Y:      DefaultMarkerMargin,
			Width:  DefaultMarkerSize,
			Height: DefaultMarkerSize,
		}
	}

	w, h := p.Width, p.Height
	if w <= 0 {
		w = DefaultMarkerSize
	}
	if h <= 0 {
		h = DefaultMarkerSize
	}

	side := math.Min(w, h)
	return Rect{
		X:      p.X,
		Y:      pageHeight - p.Y - side,
		Width:  side,
		Height: side,
	}
}

// CaptionOrigin returns the baseline origin of a caption of width textWidth
// next to marker. The caption goes to the left of the marker unless that
// would start before the page's left edge, in which case it goes right.
func CaptionOrigin(marker Rect, textWidth, fontSize float64) (x, y float64) {
	x = marker.X - textWidth - CaptionGap
	if x < 0 {
		x = marker.X + marker.Width + CaptionGap
	}
	y = marker.Y + marker.Height/2 - fontSize/2 + 2
	return x, y
}
