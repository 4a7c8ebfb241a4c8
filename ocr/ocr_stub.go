//go:build !ocr

// Package ocr recognizes text cells in page images.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// Recognition returns ErrOCRNotEnabled; the image helpers still work.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
package ocr

import (
	"errors"

	"github.com/tsawler/pagelayout/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR.
type PageSegMode int

// Page segmentation modes (matching the OCR-enabled implementation).
const (
	PSM_AUTO         PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_BLOCK PageSegMode = 6  // Single uniform block of text
	PSM_SPARSE_TEXT  PageSegMode = 11 // Find as much text as possible
)

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled
func (c *Client) Recognize(imageData []byte) ([]Word, error) {
	return nil, ErrOCRNotEnabled
}

// RecognizeCells returns ErrOCRNotEnabled
func (c *Client) RecognizeCells(imageData []byte) ([]model.TextCell, error) {
	return nil, ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetPageSegMode returns ErrOCRNotEnabled
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
