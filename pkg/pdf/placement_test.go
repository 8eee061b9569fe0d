package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPDFSpaceDefault(t *testing.T) {
	r := ToPDFSpace(595, 842, nil)

	assert.Equal(t, Rect{X: 475, Y: 20, Width: 100, Height: 100}, r)
}

func TestToPDFSpaceExplicit(t *testing.T) {
	r := ToPDFSpace(595, 842, &Placement{X: 50, Y: 100, Width: 80, Height: 80})

	assert.Equal(t, 50.0, r.X)
	assert.Equal(t, 662.0, r.Y)
	assert.Equal(t, 80.0, r.Width)
	assert.Equal(t, 80.0, r.Height)
}

func TestToPDFSpaceFitsNonSquareBox(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
		want Rect
	}{
		{"wide box", Placement{X: 50, Y: 100, Width: 120, Height: 60}, Rect{X: 50, Y: 682, Width: 60, Height: 60}},
		{"tall box", Placement{X: 50, Y: 100, Width: 60, Height: 120}, Rect{X: 50, Y: 682, Width: 60, Height: 60}},
		{"width only", Placement{X: 0, Y: 0, Width: 40}, Rect{X: 0, Y: 802, Width: 40, Height: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			assert.Equal(t, tt.want, ToPDFSpace(595, 842, &p))
		})
	}
}

func TestToPDFSpaceZeroSizeFallsBack(t *testing.T) {
	r := ToPDFSpace(612, 792, &Placement{X: 10, Y: 10})

	assert.Equal(t, 100.0, r.Width)
	assert.Equal(t, 100.0, r.Height)
	assert.Equal(t, 682.0, r.Y)
}

func TestToPDFSpaceOutOfPageIsNotClamped(t *testing.T) {
	r := ToPDFSpace(595, 842, &Placement{X: 900, Y: 1000, Width: 100, Height: 100})

	assert.Equal(t, 900.0, r.X)
	assert.Equal(t, -258.0, r.Y)
}

func TestCaptionOrigin(t *testing.T) {
	tests := []struct {
		name   string
		marker Rect
		width  float64
		wantX  float64
		wantY  float64
	}{
		{
			name:   "left of marker",
			marker: Rect{X: 475, Y: 20, Width: 100, Height: 100},
			width:  200,
			wantX:  265,
			wantY:  67.5,
		},
		{
			name:   "flips right near left edge",
			marker: Rect{X: 20, Y: 700, Width: 100, Height: 100},
			width:  200,
			wantX:  130,
			wantY:  747.5,
		},
		{
			name:   "exactly at edge stays left",
			marker: Rect{X: 210, Y: 0, Width: 50, Height: 50},
			width:  200,
			wantX:  0,
			wantY:  22.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := CaptionOrigin(tt.marker, tt.width, CaptionFontSize)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestTextWidthGrowsWithText(t *testing.T) {
	short := TextWidth("abc", CaptionFontSize)
	long := TextWidth(DefaultCaption, CaptionFontSize)

	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)
	assert.InDelta(t, 2*TextWidth(DefaultCaption, 9), TextWidth(DefaultCaption, 18), 0.01)
}
