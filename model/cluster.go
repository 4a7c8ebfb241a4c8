package model

// TextStyle carries the style flags an OCR engine reports for a cell
type TextStyle struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// TextCell is a piece of recognized text with its position on the page.
// Cells are never mutated once produced; clusters hold copies.
type TextCell struct {
	// Index is the cell's ordinal on its page and its identity: two cells
	// with the same Index are the same cell.
	Index      int       `json:"index"`
	Text       string    `json:"text"`
	BBox       BBox      `json:"bbox"`
	Confidence *float64  `json:"confidence,omitempty"`
	Style      TextStyle `json:"style"`
}

// LabeledCluster is a region hypothesis from the layout detector
type LabeledCluster struct {
	ID         int     `json:"id"`
	Label      Label   `json:"label"`
	BBox       BBox    `json:"bbox"`
	Confidence float64 `json:"confidence"`
	// ClassID is the raw model class, kept for diagnostics only.
	ClassID int `json:"class_id"`
}

// Cluster is a labeled region together with the text cells assigned to it
type Cluster struct {
	LabeledCluster
	Cells []TextCell
}

// NewCluster creates a cluster with no cells from a detector region
func NewCluster(lc LabeledCluster) Cluster {
	return Cluster{LabeledCluster: lc}
}

// Clone returns a copy of the cluster that shares no cell storage with c
func (c Cluster) Clone() Cluster {
	out := c
	if c.Cells != nil {
		out.Cells = make([]TextCell, len(c.Cells))
		copy(out.Cells, c.Cells)
	}
	return out
}

// CellsBBox returns the union of the cluster box and its cell boxes
func (c Cluster) CellsBBox() BBox {
	box := c.BBox
	for _, cell := range c.Cells {
		box = box.Union(cell.BBox)
	}
	return box
}
