//go:build ocr

// Package ocr recognizes text cells in page images.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/pagelayout/model"
)

// ErrOCRNotEnabled is never returned by this build; it exists so callers
// compile with and without the ocr tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR
type PageSegMode = gosseract.PageSegMode

// Page segmentation modes
const (
	PSM_AUTO         = gosseract.PSM_AUTO
	PSM_SINGLE_BLOCK = gosseract.PSM_SINGLE_BLOCK
	PSM_SPARSE_TEXT  = gosseract.PSM_SPARSE_TEXT
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize runs Tesseract on image data (PNG, TIFF, JPEG, etc.) and
// returns its word boxes.
func (c *Client) Recognize(imageData []byte) ([]Word, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{Text: b.Word, Box: b.Box, Confidence: b.Confidence})
	}
	return words, nil
}

// RecognizeCells preprocesses the image to grayscale, recognizes it and
// returns one cell per word in image coordinates.
func (c *Client) RecognizeCells(imageData []byte) ([]model.TextCell, error) {
	gray, _, err := Preprocess(imageData)
	if err != nil {
		return nil, err
	}
	words, err := c.Recognize(gray)
	if err != nil {
		return nil, err
	}
	return Cells(words), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
