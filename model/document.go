package model

import "strings"

// Document is an ordered set of assembled pages
type Document struct {
	Pages []*Page
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages: make([]*Page, 0),
	}
}

// AddPage adds a page to the document. A page without a number gets the
// next one.
func (d *Document) AddPage(page *Page) {
	if page.Number == 0 {
		page.Number = len(d.Pages) + 1
	}
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(number int) *Page {
	for _, p := range d.Pages {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// ExtractText returns all text content concatenated
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, page := range d.Pages {
		sb.WriteString(page.ExtractText())
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ExtractTables returns all tables from all pages
func (d *Document) ExtractTables() []*TableItem {
	var tables []*TableItem
	for _, page := range d.Pages {
		tables = append(tables, page.ExtractTables()...)
	}
	return tables
}
