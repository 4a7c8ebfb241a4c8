//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestPNG creates a simple PNG image with a text-like block.
// OCR might or might not recognize anything in it.
func createTestPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecognizeCells(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	cells, err := client.RecognizeCells(createTestPNG(200, 50))
	if err != nil {
		t.Skipf("Tesseract not usable: %v", err)
	}
	for i, c := range cells {
		if c.Index != i {
			t.Errorf("cell %d has index %d", i, c.Index)
		}
		if c.Text == "" {
			t.Errorf("cell %d is blank", i)
		}
		if c.Confidence == nil || *c.Confidence < 0 || *c.Confidence > 1 {
			t.Errorf("cell %d confidence out of range", i)
		}
	}
}

func TestRecognizeCellsInvalidImage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if _, err := client.RecognizeCells([]byte("not an image")); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestSetLanguage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		t.Errorf("SetLanguage(eng) failed: %v", err)
	}
}
