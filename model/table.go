package model

import (
	"fmt"
	"strings"
)

// TableStructure is the row/column layout of a table as returned by a
// table-structure model
type TableStructure struct {
	NumRows int         `json:"num_rows"`
	NumCols int         `json:"num_cols"`
	Cells   []TableCell `json:"cells"`
}

// TableCell is one cell of a structured table
type TableCell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	RowSpan  int    `json:"row_span,omitempty"`
	ColSpan  int    `json:"col_span,omitempty"`
	Text     string `json:"text"`
	BBox     BBox   `json:"bbox"`
	IsHeader bool   `json:"is_header,omitempty"`
}

// Validate checks that every cell lies inside the declared grid
func (s *TableStructure) Validate() error {
	if s.NumRows < 0 || s.NumCols < 0 {
		return fmt.Errorf("invalid table size %dx%d", s.NumRows, s.NumCols)
	}
	for i, c := range s.Cells {
		rs, cs := span(c.RowSpan), span(c.ColSpan)
		if c.Row < 0 || c.Col < 0 || c.Row+rs > s.NumRows || c.Col+cs > s.NumCols {
			return fmt.Errorf("cell %d at (%d,%d) span %dx%d outside %dx%d grid",
				i, c.Row, c.Col, rs, cs, s.NumRows, s.NumCols)
		}
	}
	return nil
}

// Grid returns the cell text laid out as rows. Spanned positions repeat
// nothing and stay empty.
func (s *TableStructure) Grid() [][]string {
	grid := make([][]string, s.NumRows)
	for i := range grid {
		grid[i] = make([]string, s.NumCols)
	}
	for _, c := range s.Cells {
		if c.Row >= 0 && c.Row < s.NumRows && c.Col >= 0 && c.Col < s.NumCols {
			grid[c.Row][c.Col] = c.Text
		}
	}
	return grid
}

// Text returns the rows tab-separated, one row per line
func (s *TableStructure) Text() string {
	var sb strings.Builder
	for _, row := range s.Grid() {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. The first row is the
// header row.
func (s *TableStructure) ToMarkdown() string {
	grid := s.Grid()
	if len(grid) == 0 || s.NumCols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(cell, "\n", " "), "|", "\\|"))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(grid[0])
	for range grid[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}
	return sb.String()
}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
