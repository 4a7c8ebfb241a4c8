package model

import "strings"

// PageInput is everything the external collaborators produce for one page:
// detector clusters and OCR cells.
type PageInput struct {
	Number   int              `json:"page"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Origin   Origin           `json:"-"`
	Clusters []LabeledCluster `json:"clusters"`
	Cells    []TextCell       `json:"cells"`
}

// Page represents a single assembled page
type Page struct {
	Number   int       // 1-indexed page number
	Width    float64   // Page width, 0 when unknown
	Height   float64   // Page height, 0 when unknown
	Origin   Origin    // Coordinate convention of every box on the page
	Elements []Element // Elements in reading order
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:    width,
		Height:   height,
		Elements: make([]Element, 0),
	}
}

// AddElement adds an element to the page
func (p *Page) AddElement(elem Element) {
	p.Elements = append(p.Elements, elem)
}

// ExtractText concatenates all text elements
func (p *Page) ExtractText() string {
	var sb strings.Builder
	for _, elem := range p.Elements {
		if te, ok := elem.(TextElement); ok {
			sb.WriteString(te.GetText())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ExtractTables returns all table elements on the page
func (p *Page) ExtractTables() []*TableItem {
	var tables []*TableItem
	for _, elem := range p.Elements {
		if table, ok := elem.(*TableItem); ok {
			tables = append(tables, table)
		}
	}
	return tables
}

// GetElementsInRegion returns elements whose box overlaps bbox
func (p *Page) GetElementsInRegion(bbox BBox) []Element {
	var elements []Element
	for _, elem := range p.Elements {
		if bbox.IntersectionArea(elem.BoundingBox()) > 0 {
			elements = append(elements, elem)
		}
	}
	return elements
}
