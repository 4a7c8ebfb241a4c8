package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tsawler/pagelayout/model"
)

// Word is one recognized word with its pixel box and the engine's
// confidence in percent
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Cells converts recognized words into text cells in engine order. Blank
// words are dropped; confidence is scaled to [0,1].
func Cells(words []Word) []model.TextCell {
	cells := make([]model.TextCell, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		conf := w.Confidence / 100
		if conf < 0 {
			conf = 0
		} else if conf > 1 {
			conf = 1
		}
		cells = append(cells, model.TextCell{
			Index: len(cells),
			Text:  text,
			BBox: model.NewBBox(
				float64(w.Box.Min.X), float64(w.Box.Min.Y),
				float64(w.Box.Max.X), float64(w.Box.Max.Y),
			),
			Confidence: &conf,
		})
	}
	return cells
}

// Preprocess decodes an image, converts it to grayscale and re-encodes it
// as PNG. It also returns the image size, which is the page size of the
// resulting cells.
func Preprocess(imageData []byte) ([]byte, image.Point, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}
	gray := imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), gray.Bounds().Size(), nil
}

// PageInput builds pipeline input from recognized cells and the image size
func PageInput(number int, size image.Point, cells []model.TextCell, clusters []model.LabeledCluster) model.PageInput {
	return model.PageInput{
		Number:   number,
		Width:    float64(size.X),
		Height:   float64(size.Y),
		Origin:   model.TopLeft,
		Clusters: clusters,
		Cells:    cells,
	}
}
