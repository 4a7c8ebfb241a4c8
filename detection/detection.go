// Package detection reads layout-detector output into pipeline input.
//
// The expected JSON document lists pages, each with detector clusters and,
// optionally, OCR cells:
//
//	{
//	  "pages": [{
//	    "page": 1, "width": 612, "height": 792, "origin": "top-left",
//	    "clusters": [{"id": 0, "label": "text", "confidence": 0.93,
//	                  "bbox": {"l": 72, "t": 90, "r": 540, "b": 130}}],
//	    "cells": [{"text": "Hello", "bbox": {"l": 72, "t": 92, "r": 110, "b": 104}}]
//	  }]
//	}
//
// Labels use the names of model.Label ("section_header", "list_item", ...).
// Malformed input is rejected here so the pipeline never sees it.
package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/pagelayout/model"
)

var (
	// ErrInvalidLabel is returned for a cluster label that is not a known name
	ErrInvalidLabel = errors.New("invalid cluster label")

	// ErrInvalidCluster is returned for out-of-range confidences and
	// duplicate ids
	ErrInvalidCluster = errors.New("invalid cluster")

	// ErrInvalidOrigin is returned for an unknown coordinate origin
	ErrInvalidOrigin = errors.New("invalid origin")
)

type file struct {
	Pages []page `json:"pages"`
}

type page struct {
	Number   int              `json:"page"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Origin   string           `json:"origin"`
	Clusters []cluster        `json:"clusters"`
	Cells    []model.TextCell `json:"cells"`
}

type cluster struct {
	ID         int        `json:"id"`
	Label      string     `json:"label"`
	BBox       model.BBox `json:"bbox"`
	Confidence float64    `json:"confidence"`
	ClassID    int        `json:"class_id"`
}

// Load decodes a detection document. Pages without a number are numbered
// by position starting at 1.
func Load(r io.Reader) ([]model.PageInput, error) {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}

	pages := make([]model.PageInput, 0, len(f.Pages))
	for i, p := range f.Pages {
		in, err := p.toInput()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if in.Number == 0 {
			in.Number = i + 1
		}
		pages = append(pages, in)
	}
	return pages, nil
}

// LoadFile decodes the detection document at path
func LoadFile(path string) ([]model.PageInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open detections: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ParseOrigin accepts "top-left" and "bottom-left" (also with '_'). An empty
// string means top-left.
func ParseOrigin(s string) (model.Origin, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "top-left":
		return model.TopLeft, nil
	case "bottom-left":
		return model.BottomLeft, nil
	}
	return model.TopLeft, fmt.Errorf("%w: %q", ErrInvalidOrigin, s)
}

func (p page) toInput() (model.PageInput, error) {
	origin, err := ParseOrigin(p.Origin)
	if err != nil {
		return model.PageInput{}, err
	}

	in := model.PageInput{
		Number: p.Number,
		Width:  p.Width,
		Height: p.Height,
		Origin: origin,
		Cells:  p.Cells,
	}

	seen := make(map[int]bool, len(p.Clusters))
	for _, c := range p.Clusters {
		lc, err := c.toCluster()
		if err != nil {
			return model.PageInput{}, err
		}
		if seen[lc.ID] {
			return model.PageInput{}, fmt.Errorf("%w: duplicate id %d", ErrInvalidCluster, lc.ID)
		}
		seen[lc.ID] = true
		in.Clusters = append(in.Clusters, lc)
	}
	return in, nil
}

func (c cluster) toCluster() (model.LabeledCluster, error) {
	label, err := model.ParseLabel(c.Label)
	if err != nil {
		return model.LabeledCluster{}, fmt.Errorf("%w: cluster %d: %q", ErrInvalidLabel, c.ID, c.Label)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return model.LabeledCluster{}, fmt.Errorf("%w: cluster %d confidence %v not in [0,1]", ErrInvalidCluster, c.ID, c.Confidence)
	}
	return model.LabeledCluster{
		ID:         c.ID,
		Label:      label,
		BBox:       c.BBox,
		Confidence: c.Confidence,
		ClassID:    c.ClassID,
	}, nil
}

// Write encodes pages in the format Load reads
func Write(w io.Writer, pages []model.PageInput) error {
	f := file{Pages: make([]page, 0, len(pages))}
	for _, in := range pages {
		p := page{
			Number: in.Number,
			Width:  in.Width,
			Height: in.Height,
			Origin: in.Origin.String(),
			Cells:  in.Cells,
		}
		for _, lc := range in.Clusters {
			p.Clusters = append(p.Clusters, cluster{
				ID:         lc.ID,
				Label:      lc.Label.String(),
				BBox:       lc.BBox,
				Confidence: lc.Confidence,
				ClassID:    lc.ClassID,
			})
		}
		f.Pages = append(f.Pages, p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode detections: %w", err)
	}
	return nil
}
