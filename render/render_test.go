package render

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pagelayout/model"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func blank(w, h int) *image.NRGBA {
	return imaging.New(w, h, white)
}

func pageWith(origin model.Origin, elems ...model.Element) *model.Page {
	page := model.NewPage(100, 50)
	page.Origin = origin
	for _, e := range elems {
		page.AddElement(e)
	}
	return page
}

func TestOverlayScalesBoxes(t *testing.T) {
	img := blank(200, 100)
	page := pageWith(model.TopLeft, model.NewTextItem(3, model.LabelText, model.NewBBox(10, 10, 40, 20), "x", nil))

	out := Overlay(img, page, Options{Thickness: 2})
	want := LabelColor(model.LabelText)

	assert.Equal(t, want, out.NRGBAAt(20, 30), "left edge")
	assert.Equal(t, want, out.NRGBAAt(79, 30), "right edge")
	assert.Equal(t, want, out.NRGBAAt(50, 20), "top edge")
	assert.Equal(t, want, out.NRGBAAt(50, 39), "bottom edge")
	assert.Equal(t, white, out.NRGBAAt(50, 30), "interior untouched")
	assert.Equal(t, white, out.NRGBAAt(19, 30), "outside untouched")

	assert.Equal(t, white, img.NRGBAAt(20, 30), "source image is not modified")
}

func TestOverlayBottomLeft(t *testing.T) {
	page := pageWith(model.BottomLeft, model.NewTableItem(0, model.NewBBox(10, 10, 40, 20), nil))

	out := Overlay(blank(200, 100), page, Options{Thickness: 1})
	want := LabelColor(model.LabelTable)

	assert.Equal(t, want, out.NRGBAAt(20, 70), "box is flipped to rows 60-80")
	assert.Equal(t, white, out.NRGBAAt(20, 30))
}

func TestOverlayCaption(t *testing.T) {
	page := pageWith(model.TopLeft, model.NewTextItem(0, model.LabelTitle, model.NewBBox(10, 20, 90, 40), "t", nil))

	plain := Overlay(blank(200, 100), page, Options{Thickness: 1})
	captioned := Overlay(blank(200, 100), page, DefaultOptions())

	// The caption strip sits just above the box
	assert.Equal(t, white, plain.NRGBAAt(21, 35))
	assert.NotEqual(t, white, captioned.NRGBAAt(21, 35))
}

func TestOverlayClipsToImage(t *testing.T) {
	page := pageWith(model.TopLeft,
		model.NewPictureItem(0, model.LabelPicture, model.NewBBox(-50, -50, 500, 500)),
		model.NewPictureItem(1, model.LabelPicture, model.NewBBox(300, 300, 400, 400)),
	)
	assert.NotPanics(t, func() { Overlay(blank(100, 50), page, DefaultOptions()) })
}

func TestOverlayUnknownPageSize(t *testing.T) {
	page := model.NewPage(0, 0)
	page.AddElement(model.NewTextItem(0, model.LabelText, model.NewBBox(5, 5, 15, 15), "x", nil))

	out := Overlay(blank(50, 50), page, Options{Thickness: 1})
	assert.Equal(t, LabelColor(model.LabelText), out.NRGBAAt(5, 10), "pixel coordinates are used as is")
}

func TestLabelColor(t *testing.T) {
	assert.Equal(t, fallbackColor, LabelColor(model.LabelKeyValueRegion))
	assert.NotEqual(t, LabelColor(model.LabelText), LabelColor(model.LabelTable))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")
	page := pageWith(model.TopLeft, model.NewTextItem(0, model.LabelText, model.NewBBox(10, 10, 40, 20), "x", nil))

	require.NoError(t, Save(Overlay(blank(200, 100), page, DefaultOptions()), path))

	back, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), back.Bounds())

	assert.Error(t, Save(blank(1, 1), filepath.Join(t.TempDir(), "overlay.unknown")))
}
