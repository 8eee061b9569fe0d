package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digisign/portal-backend/internal/common"
)

func fixturePDF(t *testing.T, pages int) []byte {
	t.Helper()
	opts := DefaultGenerateOptions()
	opts.Pages = pages
	out, err := NewGenerator().Generate(context.Background(), opts)
	require.NoError(t, err)
	return out
}

func fixtureMarker(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			if (x/16+y/16)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStampDefaultPlacement(t *testing.T) {
	in := fixturePDF(t, 1)

	out, err := NewStamper().Stamp(context.Background(), in, fixtureMarker(t), DefaultCaption, nil)
	require.NoError(t, err)
	assert.NotEqual(t, in, out)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStampKeepsPageCountAndDims(t *testing.T) {
	in := fixturePDF(t, 3)
	before, err := api.PageDims(bytes.NewReader(in), newConfiguration())
	require.NoError(t, err)

	placement := &Placement{X: 50, Y: 100, Width: 80, Height: 80}
	out, err := NewStamper().Stamp(context.Background(), in, fixtureMarker(t), DefaultCaption, placement)
	require.NoError(t, err)

	after, err := api.PageDims(bytes.NewReader(out), newConfiguration())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStampWithoutCaption(t *testing.T) {
	out, err := NewStamper().Stamp(context.Background(), fixturePDF(t, 1), fixtureMarker(t), "", nil)
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStampMalformedDocument(t *testing.T) {
	s := NewStamper()

	_, err := s.Stamp(context.Background(), []byte("this is not a pdf"), fixtureMarker(t), DefaultCaption, nil)
	assert.ErrorIs(t, err, common.ErrMalformedDocument)

	_, err = s.Stamp(context.Background(), nil, fixtureMarker(t), DefaultCaption, nil)
	assert.ErrorIs(t, err, common.ErrMalformedDocument)
}

func TestStampRejectsBadMarkerImage(t *testing.T) {
	_, err := NewStamper().Stamp(context.Background(), fixturePDF(t, 1), []byte("nope"), DefaultCaption, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrMalformedDocument)
}

func TestImageDescriptionScalesToMarkerWidth(t *testing.T) {
	d := imageDescription(Rect{X: 475, Y: 20, Width: 100, Height: 100}, 256)

	assert.Contains(t, d, "offset:475.00 20.00")
	assert.Contains(t, d, "scalefactor:0.3906 abs")
	assert.Contains(t, d, "position:bl")
}

// stampOp matches the form invocation pdfcpu writes for a stamp.
var stampOp = regexp.MustCompile(`q ([-\d.]+) ([-\d.]+) ([-\d.]+) ([-\d.]+) ([-\d.]+) ([-\d.]+) cm /\S+ gs /(\S+) Do Q`)

// stampedMarker reads page 1 of document and returns where the first stamp
// form is drawn and the size of its bounding box.
func stampedMarker(t *testing.T, document []byte) Rect {
	t.Helper()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(document), newConfiguration())
	require.NoError(t, err)
	pageDict, _, inherited, err := ctx.PageDict(1, false)
	require.NoError(t, err)

	content, err := ctx.PageContent(pageDict)
	require.NoError(t, err)
	m := stampOp.FindSubmatch(content)
	require.NotNil(t, m, "page 1 has no stamp")

	x, err := strconv.ParseFloat(string(m[5]), 64)
	require.NoError(t, err)
	y, err := strconv.ParseFloat(string(m[6]), 64)
	require.NoError(t, err)

	resources := inherited.Resources
	if o, ok := pageDict.Find("Resources"); ok {
		resources, err = ctx.DereferenceDict(o)
		require.NoError(t, err)
	}
	xobjects, err := ctx.DereferenceDict(resources["XObject"])
	require.NoError(t, err)
	ref, ok := xobjects[string(m[7])].(types.IndirectRef)
	require.True(t, ok, "stamp form %s not in page resources", m[7])

	form, err := ctx.DereferenceXObjectDict(ref)
	require.NoError(t, err)
	bbox, err := ctx.DereferenceArray(form.Dict["BBox"])
	require.NoError(t, err)
	box, err := ctx.RectForArray(bbox)
	require.NoError(t, err)

	return Rect{X: x, Y: y, Width: box.Width(), Height: box.Height()}
}

func TestStampPlacesMarker(t *testing.T) {
	in := fixturePDF(t, 1)
	dims, err := api.PageDims(bytes.NewReader(in), newConfiguration())
	require.NoError(t, err)
	w, h := dims[0].Width, dims[0].Height

	tests := []struct {
		name      string
		placement *Placement
		want      Rect
	}{
		{"default bottom right", nil, Rect{X: w - 120, Y: 20, Width: 100, Height: 100}},
		{"explicit square", &Placement{X: 50, Y: 100, Width: 80, Height: 80}, Rect{X: 50, Y: h - 180, Width: 80, Height: 80}},
		{"wide box fits height", &Placement{X: 50, Y: 100, Width: 120, Height: 60}, Rect{X: 50, Y: h - 160, Width: 60, Height: 60}},
		{"tall box fits width", &Placement{X: 300, Y: 40, Width: 64, Height: 200}, Rect{X: 300, Y: h - 104, Width: 64, Height: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewStamper().Stamp(context.Background(), in, fixtureMarker(t), "", tt.placement)
			require.NoError(t, err)

			got := stampedMarker(t, out)
			assert.InDelta(t, tt.want.X, got.X, 0.01, "x")
			assert.InDelta(t, tt.want.Y, got.Y, 0.01, "y")
			assert.InDelta(t, tt.want.Width, got.Width, 0.05, "width")
			assert.InDelta(t, tt.want.Height, got.Height, 0.05, "height")
		})
	}
}
