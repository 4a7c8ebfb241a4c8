package layout

import (
	"sort"

	"github.com/tsawler/pagelayout/model"
)

// ReadingOrderConfig holds configuration for reading order detection
type ReadingOrderConfig struct {
	// ColumnConfig is the configuration for column band detection
	ColumnConfig ColumnConfig

	// SpanningThreshold is the minimum width ratio for an element to be
	// considered spanning. Spanning elements split the page into strips that
	// are ordered independently. Zero or less disables spanning detection.
	// Default: 0.7 (elements covering 70%+ of the page width)
	SpanningThreshold float64
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		ColumnConfig:      DefaultColumnConfig(),
		SpanningThreshold: 0.7,
	}
}

// ReadingOrderResult holds the result of reading order analysis
type ReadingOrderResult struct {
	// Elements in reading order
	Elements []model.Element

	// Sections in reading order (spanning elements and column strips)
	Sections []ReadingSection

	// ColumnCount is the largest number of bands found in any strip
	ColumnCount int
}

// ReadingSection represents a section of content in reading order
type ReadingSection struct {
	// Type indicates what kind of section this is
	Type SectionType

	// Elements in this section (in reading order)
	Elements []model.Element

	// Bands holds the column bands of a strip, left to right
	Bands []Band
}

// SectionType indicates the type of reading section
type SectionType int

const (
	SectionSpanning SectionType = iota // Full-width content (titles, wide figures)
	SectionColumn                      // Column content between spanning elements
)

// String returns a string representation of the section type
func (t SectionType) String() string {
	if t == SectionSpanning {
		return "spanning"
	}
	return "column"
}

// ReadingOrderDetector determines the reading order of assembled elements
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a new reading order detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderDetectorWithConfig creates a reading order detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: config,
	}
}

// Order returns the elements in reading order. pageWidth may be zero, in
// which case the horizontal extent of the content is used.
func (d *ReadingOrderDetector) Order(elements []model.Element, pageWidth float64, origin model.Origin) []model.Element {
	return d.Detect(elements, pageWidth, origin).Elements
}

// Detect orders elements top to bottom with column awareness.
//
// Elements at least SpanningThreshold of the page wide are taken out first
// and sorted by their top edge. They cut the page into strips. Inside a
// strip, elements are grouped into column bands; bands are read left to
// right and each band top to bottom. Narrow elements that bridge two bands,
// such as a centered page number, are handled like spanning elements: they
// cut the strip again and are read in place by their top edge. Ties fall
// back to the left edge and then the cluster id so the order is fully
// deterministic.
func (d *ReadingOrderDetector) Detect(elements []model.Element, pageWidth float64, origin model.Origin) *ReadingOrderResult {
	if len(elements) == 0 {
		return &ReadingOrderResult{}
	}

	width := pageWidth
	if width <= 0 {
		width = contentWidth(elements)
	}

	var spanning, rest []model.Element
	for _, e := range elements {
		if d.isSpanning(e, width) {
			spanning = append(spanning, e)
		} else {
			rest = append(rest, e)
		}
	}

	result := &ReadingOrderResult{}
	d.appendStrips(NewColumnDetectorWithConfig(d.config.ColumnConfig), result, spanning, rest, origin)
	return result
}

// appendStrips cuts elements into strips at the separators and appends the
// strips and separators to result in reading order
func (d *ReadingOrderDetector) appendStrips(cd *ColumnDetector, result *ReadingOrderResult, separators, elements []model.Element, origin model.Origin) {
	sortTopDown(separators, origin)

	// strips[k] holds the elements above separators[k]; the last strip
	// holds everything below the last separator
	strips := make([][]model.Element, len(separators)+1)
	for _, e := range elements {
		key := origin.TopKey(e.BoundingBox())
		k := sort.Search(len(separators), func(i int) bool {
			return origin.TopKey(separators[i].BoundingBox()) > key
		})
		strips[k] = append(strips[k], e)
	}

	for k, strip := range strips {
		if len(strip) > 0 {
			d.appendColumns(cd, result, strip, origin)
		}
		if k < len(separators) {
			result.Sections = append(result.Sections, ReadingSection{
				Type:     SectionSpanning,
				Elements: []model.Element{separators[k]},
			})
			result.Elements = append(result.Elements, separators[k])
		}
	}
}

// appendColumns bands a strip and orders each band top to bottom. Bridges
// split the strip further; every level of splitting removes at least one
// element, so the recursion ends.
func (d *ReadingOrderDetector) appendColumns(cd *ColumnDetector, result *ReadingOrderResult, elements []model.Element, origin model.Origin) {
	columns := cd.Detect(elements)
	if len(columns.Bridges) > 0 {
		bridged := make(map[model.Element]bool, len(columns.Bridges))
		for _, e := range columns.Bridges {
			bridged[e] = true
		}
		var rest []model.Element
		for _, e := range elements {
			if !bridged[e] {
				rest = append(rest, e)
			}
		}
		d.appendStrips(cd, result, columns.Bridges, rest, origin)
		return
	}

	section := ReadingSection{Type: SectionColumn, Bands: columns.Bands}
	for i := range columns.Bands {
		sortTopDown(columns.Bands[i].Elements, origin)
		section.Elements = append(section.Elements, columns.Bands[i].Elements...)
	}
	if len(columns.Bands) > result.ColumnCount {
		result.ColumnCount = len(columns.Bands)
	}
	result.Sections = append(result.Sections, section)
	result.Elements = append(result.Elements, section.Elements...)
}

func (d *ReadingOrderDetector) isSpanning(e model.Element, width float64) bool {
	if d.config.SpanningThreshold <= 0 || width <= 0 {
		return false
	}
	return e.BoundingBox().Width() >= width*d.config.SpanningThreshold
}

// sortTopDown sorts elements by top edge, then left edge, then cluster id
func sortTopDown(elements []model.Element, origin model.Origin) {
	sort.SliceStable(elements, func(i, j int) bool {
		bi, bj := elements[i].BoundingBox(), elements[j].BoundingBox()
		ti, tj := origin.TopKey(bi), origin.TopKey(bj)
		if ti != tj {
			return ti < tj
		}
		if bi.MinX() != bj.MinX() {
			return bi.MinX() < bj.MinX()
		}
		return elements[i].ClusterID() < elements[j].ClusterID()
	})
}

// contentWidth returns the horizontal extent covered by all elements
func contentWidth(elements []model.Element) float64 {
	minX, maxX := elements[0].BoundingBox().MinX(), elements[0].BoundingBox().MaxX()
	for _, e := range elements[1:] {
		b := e.BoundingBox()
		if b.MinX() < minX {
			minX = b.MinX()
		}
		if b.MaxX() > maxX {
			maxX = b.MaxX()
		}
	}
	return maxX - minX
}
