package assembly

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagelayout/model"
)

// Assemble turns clusters into typed elements, one per cluster, in cluster
// order. Text content is the cells' text read line by line, top to bottom
// according to origin, and left to right within a line.
func Assemble(clusters []model.Cluster, origin model.Origin) []model.Element {
	elements := make([]model.Element, 0, len(clusters))
	for _, c := range clusters {
		elements = append(elements, assembleCluster(c, origin))
	}
	return elements
}

func assembleCluster(c model.Cluster, origin model.Origin) model.Element {
	cells := SortCells(c.Cells, origin)
	switch {
	case c.Label.IsText():
		return model.NewTextItem(c.ID, c.Label, c.BBox, JoinText(cells), cells)
	case c.Label.IsPicture():
		return model.NewPictureItem(c.ID, c.Label, c.BBox)
	}

	switch c.Label {
	case model.LabelTable:
		return model.NewTableItem(c.ID, c.BBox, cells)
	case model.LabelCode:
		return model.NewCodeItem(c.ID, c.BBox, joinLines(cells, origin), cells)
	case model.LabelFormula:
		return model.NewFormulaItem(c.ID, c.BBox, JoinText(cells), cells)
	case model.LabelCheckboxSelected, model.LabelCheckboxUnselected:
		return model.NewCheckboxItem(c.ID, c.BBox, c.Label == model.LabelCheckboxSelected, JoinText(cells))
	default:
		return model.NewContainerItem(c.ID, c.Label, c.BBox, JoinText(cells), cells)
	}
}

// SortCells returns a copy of cells in reading order: cells are grouped
// into lines, lines are read top to bottom and each line left to right.
func SortCells(cells []model.TextCell, origin model.Origin) []model.TextCell {
	if len(cells) == 0 {
		return nil
	}
	sorted := make([]model.TextCell, 0, len(cells))
	for _, line := range Lines(cells, origin) {
		sorted = append(sorted, line...)
	}
	return sorted
}

// Lines groups cells into text lines. Cells are taken top to bottom; a
// cell joins the current line when its vertical range overlaps the line by
// at least half the height of the shorter of the two, so word boxes whose
// tops differ by ascenders or descenders stay on one line. Each line is
// sorted left to right, then by index.
func Lines(cells []model.TextCell, origin model.Origin) [][]model.TextCell {
	if len(cells) == 0 {
		return nil
	}
	sorted := make([]model.TextCell, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := origin.TopKey(sorted[i].BBox), origin.TopKey(sorted[j].BBox)
		if ti != tj {
			return ti < tj
		}
		return sorted[i].Index < sorted[j].Index
	})

	var lines [][]model.TextCell
	var current []model.TextCell
	var lineBox model.BBox
	for _, c := range sorted {
		if len(current) > 0 && !sameLine(lineBox, c.BBox) {
			lines = append(lines, leftToRight(current))
			current = nil
		}
		if len(current) == 0 {
			lineBox = c.BBox
		} else {
			lineBox = lineBox.Union(c.BBox)
		}
		current = append(current, c)
	}
	return append(lines, leftToRight(current))
}

func sameLine(line, box model.BBox) bool {
	overlap := line.VerticalOverlap(box)
	return overlap > 0 && overlap >= 0.5*math.Min(line.Height(), box.Height())
}

// JoinText joins cell text with single spaces, collapses runs of
// whitespace and normalizes the result to Unicode NFC
func JoinText(cells []model.TextCell) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, c.Text)
	}
	return norm.NFC.String(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
}

// joinLines keeps line structure for code: one output line per text line
func joinLines(cells []model.TextCell, origin model.Origin) string {
	lines := Lines(cells, origin)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = JoinText(line)
	}
	return strings.Join(out, "\n")
}

func leftToRight(cells []model.TextCell) []model.TextCell {
	sort.SliceStable(cells, func(i, j int) bool {
		if li, lj := cells[i].BBox.MinX(), cells[j].BBox.MinX(); li != lj {
			return li < lj
		}
		return cells[i].Index < cells[j].Index
	})
	return cells
}
