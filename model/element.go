package model

import (
	"fmt"
	"strings"
)

// Element is the interface for all assembled page elements
type Element interface {
	ID() string
	Label() Label
	BoundingBox() BBox
	ClusterID() int
}

// TextElement is an interface for elements containing text
type TextElement interface {
	Element
	GetText() string
}

// ElementID returns the page-unique element id derived from a cluster id
func ElementID(clusterID int) string {
	return fmt.Sprintf("#/elements/%d", clusterID)
}

// base holds the fields every element variant shares
type base struct {
	Cluster int
	Kind    Label
	BBox    BBox
}

func (b base) ID() string        { return ElementID(b.Cluster) }
func (b base) Label() Label      { return b.Kind }
func (b base) BoundingBox() BBox { return b.BBox }
func (b base) ClusterID() int    { return b.Cluster }

func newBase(clusterID int, label Label, bbox BBox) base {
	return base{Cluster: clusterID, Kind: label, BBox: bbox}
}

// TextItem is a text-bearing region: paragraphs, titles, section headers,
// list items, captions, footnotes, page headers and footers, references.
type TextItem struct {
	base
	Text  string
	Cells []TextCell
}

// NewTextItem creates a text item
func NewTextItem(clusterID int, label Label, bbox BBox, text string, cells []TextCell) *TextItem {
	return &TextItem{base: newBase(clusterID, label, bbox), Text: text, Cells: cells}
}

func (t *TextItem) GetText() string { return t.Text }

// CodeItem is a code listing
type CodeItem struct {
	base
	Text  string
	Cells []TextCell
}

// NewCodeItem creates a code item
func NewCodeItem(clusterID int, bbox BBox, text string, cells []TextCell) *CodeItem {
	return &CodeItem{base: newBase(clusterID, LabelCode, bbox), Text: text, Cells: cells}
}

func (c *CodeItem) GetText() string { return c.Text }

// FormulaItem is a mathematical formula. Text is whatever OCR produced for
// the region and may be empty.
type FormulaItem struct {
	base
	Text  string
	Cells []TextCell
}

// NewFormulaItem creates a formula item
func NewFormulaItem(clusterID int, bbox BBox, text string, cells []TextCell) *FormulaItem {
	return &FormulaItem{base: newBase(clusterID, LabelFormula, bbox), Text: text, Cells: cells}
}

func (f *FormulaItem) GetText() string { return f.Text }

// TableItem is a table region. Structure stays nil until a table-structure
// model fills it.
type TableItem struct {
	base
	Cells     []TextCell
	Structure *TableStructure
}

// NewTableItem creates a table placeholder
func NewTableItem(clusterID int, bbox BBox, cells []TextCell) *TableItem {
	return &TableItem{base: newBase(clusterID, LabelTable, bbox), Cells: cells}
}

// GetText returns the table text: rows tab-separated when the structure is
// known, otherwise the raw cell text.
func (t *TableItem) GetText() string {
	if t.Structure != nil {
		return t.Structure.Text()
	}
	parts := make([]string, 0, len(t.Cells))
	for _, c := range t.Cells {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// PictureItem is an image or chart region. It carries no text.
type PictureItem struct {
	base
}

// NewPictureItem creates a picture item; label is LabelPicture or LabelChart
func NewPictureItem(clusterID int, label Label, bbox BBox) *PictureItem {
	return &PictureItem{base: newBase(clusterID, label, bbox)}
}

// CheckboxItem is a form checkbox
type CheckboxItem struct {
	base
	Checked bool
	Text    string
}

// NewCheckboxItem creates a checkbox item
func NewCheckboxItem(clusterID int, bbox BBox, checked bool, text string) *CheckboxItem {
	label := LabelCheckboxUnselected
	if checked {
		label = LabelCheckboxSelected
	}
	return &CheckboxItem{base: newBase(clusterID, label, bbox), Checked: checked, Text: text}
}

func (c *CheckboxItem) GetText() string { return c.Text }

// ContainerItem is a form or key-value region
type ContainerItem struct {
	base
	Text  string
	Cells []TextCell
}

// NewContainerItem creates a container item; label is LabelForm or
// LabelKeyValueRegion
func NewContainerItem(clusterID int, label Label, bbox BBox, text string, cells []TextCell) *ContainerItem {
	return &ContainerItem{base: newBase(clusterID, label, bbox), Text: text, Cells: cells}
}

func (c *ContainerItem) GetText() string { return c.Text }
