// Package render draws assembled elements over a page image for visual
// debugging.
//
// Every element gets an outline in a color chosen by its label and a small
// caption with the label name and cluster id:
//
//	img, _ := imaging.Open("page-1.png")
//	out := render.Overlay(img, page, render.DefaultOptions())
//	_ = render.Save(out, "page-1-layout.png")
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/pagelayout/model"
)

// Options holds configuration for the overlay
type Options struct {
	// Thickness is the outline width in pixels
	Thickness int

	// Captions draws "label #id" above each box
	Captions bool

	// Order prefixes captions with the element's reading-order position
	Order bool
}

// DefaultOptions returns sensible default options
func DefaultOptions() Options {
	return Options{Thickness: 2, Captions: true, Order: true}
}

var labelColors = map[model.Label]color.NRGBA{
	model.LabelText:               {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	model.LabelTitle:              {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	model.LabelSectionHeader:      {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	model.LabelTable:              {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	model.LabelPicture:            {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	model.LabelChart:              {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	model.LabelListItem:           {R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	model.LabelCode:               {R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	model.LabelFormula:            {R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	model.LabelCaption:            {R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	model.LabelPageHeader:         {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	model.LabelPageFooter:         {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	model.LabelCheckboxSelected:   {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	model.LabelCheckboxUnselected: {R: 0x80, G: 0x00, B: 0x00, A: 0xff},
}

var fallbackColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// LabelColor returns the outline color used for label
func LabelColor(label model.Label) color.NRGBA {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return fallbackColor
}

// Overlay returns a copy of img with the page's elements drawn on it. Page
// coordinates are scaled to the image size when the page size is known;
// bottom-left boxes are flipped into image rows.
func Overlay(img image.Image, page *model.Page, opts Options) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	tf := newTransform(page, bounds)

	for i, elem := range page.Elements {
		rect := tf.rect(elem.BoundingBox()).Intersect(bounds)
		if rect.Empty() {
			continue
		}
		c := LabelColor(elem.Label())
		strokeRect(out, rect, c, opts.Thickness)

		if opts.Captions {
			caption := elem.Label().String() + " #" + strconv.Itoa(elem.ClusterID())
			if opts.Order {
				caption = fmt.Sprintf("%d: %s", i+1, caption)
			}
			drawCaption(out, rect, caption, c)
		}
	}
	return out
}

// Save writes the image, picking the format from the file extension
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

type transform struct {
	sx, sy  float64
	height  float64
	flip    bool
	originX int
	originY int
}

func newTransform(page *model.Page, bounds image.Rectangle) transform {
	tf := transform{sx: 1, sy: 1, originX: bounds.Min.X, originY: bounds.Min.Y}
	if page.Width > 0 {
		tf.sx = float64(bounds.Dx()) / page.Width
	}
	if page.Height > 0 {
		tf.sy = float64(bounds.Dy()) / page.Height
	}
	tf.height = page.Height
	if tf.height <= 0 {
		tf.height = float64(bounds.Dy())
	}
	tf.flip = page.Origin == model.BottomLeft
	return tf
}

func (tf transform) rect(b model.BBox) image.Rectangle {
	top, bottom := b.MinY(), b.MaxY()
	if tf.flip {
		top, bottom = tf.height-b.MaxY(), tf.height-b.MinY()
	}
	return image.Rect(
		tf.originX+int(b.MinX()*tf.sx), tf.originY+int(top*tf.sy),
		tf.originX+int(b.MaxX()*tf.sx+0.5), tf.originY+int(bottom*tf.sy+0.5),
	)
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawCaption writes text on a filled strip just above r, or inside its
// top edge when there is no room above
func drawCaption(dst draw.Image, r image.Rectangle, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	width := d.MeasureString(text).Ceil()
	height := face.Metrics().Height.Ceil()

	top := r.Min.Y - height
	if top < dst.Bounds().Min.Y {
		top = r.Min.Y
	}
	strip := image.Rect(r.Min.X, top, r.Min.X+width+4, top+height).Intersect(dst.Bounds())
	draw.Draw(dst, strip, image.NewUniform(c), image.Point{}, draw.Src)

	d.Dot = fixed.P(r.Min.X+2, top+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
