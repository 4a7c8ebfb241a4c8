package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pagelayout/hocr"
	"github.com/tsawler/pagelayout/model"
)

const detections = `{"pages": [{"page": 1, "clusters": [
  {"id": 0, "label": "title", "confidence": 0.9, "bbox": {"l": 90, "t": 90, "r": 910, "b": 170}}
]}]}`

const hocrDoc = `<html><body>
<div class="ocr_page" title="bbox 0 0 1000 1400; ppageno 0">
  <span class="ocrx_word" title="bbox 100 100 300 160; x_wconf 96">Annual</span>
  <span class="ocrx_word" title="bbox 320 100 500 160; x_wconf 91">Report</span>
  <span class="ocrx_word" title="bbox 100 1300 200 1340; x_wconf 90">7</span>
</div></body></html>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMarkdown(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := options{
		detections: writeFile(t, "d.json", detections),
		hocrPath:   writeFile(t, "p.hocr", hocrDoc),
		format:     "markdown",
		workers:    1,
	}

	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))
	assert.Equal(t, "# Annual Report\n\n7\n", stdout.String())
}

func TestRunJSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	opts := options{
		detections: writeFile(t, "d.json", detections),
		hocrPath:   writeFile(t, "p.hocr", hocrDoc),
		format:     "json",
		out:        out,
	}

	require.NoError(t, run(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label": "title"`)
	assert.Contains(t, string(data), `"width": 1000`)
}

func TestRunErrors(t *testing.T) {
	det := writeFile(t, "d.json", detections)

	tests := []struct {
		name string
		opts options
	}{
		{"missing detections", options{detections: filepath.Join(t.TempDir(), "none.json"), format: "markdown"}},
		{"bad format", options{detections: det, format: "pdf"}},
		{"overlay without image", options{detections: det, format: "markdown", overlay: t.TempDir()}},
		{"bad log level", options{detections: det, format: "markdown", logLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.opts, &bytes.Buffer{}, &bytes.Buffer{}))
		})
	}
}

func TestAttachHOCR(t *testing.T) {
	pages := []model.PageInput{
		{Number: 1, Origin: model.BottomLeft},
		{Number: 2, Width: 10, Height: 20},
		{Number: 3},
	}
	hpages := []hocr.Page{
		{Number: 1, Width: 100, Height: 200, Cells: []model.TextCell{{Text: "a"}}},
		{Number: 2, Width: 100, Height: 200, Cells: []model.TextCell{{Text: "b"}}},
	}

	out := attachHOCR(pages, hpages)
	require.Len(t, out, 3)
	assert.Equal(t, model.TopLeft, out[0].Origin)
	assert.Equal(t, 100.0, out[0].Width)
	assert.Equal(t, "a", out[0].Cells[0].Text)
	assert.Equal(t, 10.0, out[1].Width, "known size is kept")
	assert.Empty(t, out[2].Cells)
	assert.Equal(t, 1, out[0].Number)
	assert.Equal(t, pages[0].Clusters, out[0].Clusters)
	assert.Equal(t, model.BottomLeft, pages[0].Origin, "input is not modified")
}

func TestRunTables(t *testing.T) {
	const tableDetections = `{"pages": [{"page": 1,
  "clusters": [{"id": 0, "label": "table", "confidence": 0.8, "bbox": {"l": 0, "t": 0, "r": 200, "b": 70}}],
  "cells": [
    {"text": "Item", "bbox": {"l": 10, "t": 10, "r": 40, "b": 20}},
    {"text": "Total", "bbox": {"l": 100, "t": 10, "r": 130, "b": 20}},
    {"text": "Apples", "bbox": {"l": 10, "t": 30, "r": 50, "b": 40}},
    {"text": "12", "bbox": {"l": 100, "t": 30, "r": 115, "b": 40}}
  ]}]}`

	var stdout bytes.Buffer
	opts := options{
		detections: writeFile(t, "d.json", tableDetections),
		format:     "markdown",
		tables:     true,
	}

	require.NoError(t, run(context.Background(), opts, &stdout, &bytes.Buffer{}))
	assert.Equal(t, "| Item | Total |\n|---|---|\n| Apples | 12 |\n", stdout.String())
}

func TestRunTablesMixedOrigins(t *testing.T) {
	// Page 2 uses page convention: the header row has the larger Y
	const mixed = `{"pages": [
 {"page": 1, "origin": "top-left",
  "clusters": [{"id": 0, "label": "table", "confidence": 0.8, "bbox": {"l": 0, "t": 0, "r": 200, "b": 70}}],
  "cells": [
    {"text": "Item", "bbox": {"l": 10, "t": 10, "r": 40, "b": 20}},
    {"text": "Total", "bbox": {"l": 100, "t": 10, "r": 130, "b": 20}},
    {"text": "Apples", "bbox": {"l": 10, "t": 30, "r": 50, "b": 40}},
    {"text": "12", "bbox": {"l": 100, "t": 30, "r": 115, "b": 40}}
  ]},
 {"page": 2, "origin": "bottom-left",
  "clusters": [{"id": 0, "label": "table", "confidence": 0.8, "bbox": {"l": 0, "t": 100, "r": 200, "b": 30}}],
  "cells": [
    {"text": "Item", "bbox": {"l": 10, "t": 90, "r": 40, "b": 80}},
    {"text": "Total", "bbox": {"l": 100, "t": 90, "r": 130, "b": 80}},
    {"text": "Apples", "bbox": {"l": 10, "t": 70, "r": 50, "b": 60}},
    {"text": "12", "bbox": {"l": 100, "t": 70, "r": 115, "b": 60}}
  ]}]}`

	var stdout bytes.Buffer
	opts := options{
		detections: writeFile(t, "d.json", mixed),
		format:     "markdown",
		tables:     true,
	}

	require.NoError(t, run(context.Background(), opts, &stdout, &bytes.Buffer{}))
	table := "| Item | Total |\n|---|---|\n| Apples | 12 |"
	assert.Equal(t, table+"\n\n---\n\n"+table+"\n", stdout.String())
}

// exifRotated encodes a w x h JPEG whose EXIF orientation asks viewers to
// rotate it 90 degrees clockwise
func exifRotated(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.White), imaging.JPEG))

	app1 := []byte{
		0xFF, 0xE1, 0x00, 0x22,
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x06, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	data := buf.Bytes()
	out := append([]byte{}, data[:2]...)
	out = append(out, app1...)
	return append(out, data[2:]...)
}

func TestWriteOverlaysHonoursOrientation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.jpg")
	require.NoError(t, os.WriteFile(path, exifRotated(t, 40, 20), 0o644))

	page := model.NewPage(20, 40)
	page.Number = 1
	page.AddElement(model.NewTextItem(0, model.LabelText, model.NewBBox(2, 2, 18, 38), "x", nil))
	doc := model.NewDocument()
	doc.AddPage(page)

	out := filepath.Join(dir, "overlays")
	require.NoError(t, writeOverlays(doc, []string{path}, out))

	img, err := imaging.Open(filepath.Join(out, "page-1.png"))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx(), "overlay follows the upright image")
	assert.Equal(t, 40, img.Bounds().Dy())
}
