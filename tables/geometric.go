package tables

import (
	"context"
	"sort"
	"strings"

	"github.com/tsawler/pagelayout/model"
)

// Config holds structurer configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// MinOccupancy is the minimum fraction of grid slots holding text
	MinOccupancy float64

	// ColumnGap is the horizontal gap that separates two columns. Zero or
	// less uses the median cell height.
	ColumnGap float64

	// HeaderRow marks the first row as header
	HeaderRow bool

	// Origin is the coordinate convention of the cell boxes
	Origin model.Origin

	// PageOrigins overrides Origin for individual pages, keyed by page
	// number. Used by StructureTable.
	PageOrigins map[int]model.Origin
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:      2,
		MinCols:      2,
		MinOccupancy: 0.5,
		HeaderRow:    true,
	}
}

// GeometricStructurer infers table structure from text cell geometry
type GeometricStructurer struct {
	config Config
}

// NewGeometricStructurer creates a structurer with default configuration
func NewGeometricStructurer() *GeometricStructurer {
	return NewGeometricStructurerWithConfig(DefaultConfig())
}

// NewGeometricStructurerWithConfig creates a structurer with custom configuration
func NewGeometricStructurerWithConfig(config Config) *GeometricStructurer {
	return &GeometricStructurer{config: config}
}

// StructureTable returns the grid of the table's cells, or nil when the
// cells do not form a grid of at least MinRows x MinCols.
func (s *GeometricStructurer) StructureTable(ctx context.Context, page int, table *model.TableItem) (*model.TableStructure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	origin, ok := s.config.PageOrigins[page]
	if !ok {
		origin = s.config.Origin
	}
	return s.structure(table.Cells, origin), nil
}

// Structure builds the grid for a set of cells in the configured Origin
func (s *GeometricStructurer) Structure(cells []model.TextCell) *model.TableStructure {
	return s.structure(cells, s.config.Origin)
}

func (s *GeometricStructurer) structure(cells []model.TextCell, origin model.Origin) *model.TableStructure {
	if len(cells) == 0 {
		return nil
	}

	rows := s.rows(cells, origin)
	cols := columns(cells, s.columnGap(cells))
	if len(rows) < s.config.MinRows || len(cols) < s.config.MinCols {
		return nil
	}

	slots := make(map[[2]int][]model.TextCell)
	for r, row := range rows {
		for _, c := range row {
			key := [2]int{r, findColumn(cols, c.BBox.Center().X)}
			slots[key] = append(slots[key], c)
		}
	}

	occupancy := float64(len(slots)) / float64(len(rows)*len(cols))
	if occupancy < s.config.MinOccupancy {
		return nil
	}

	out := &model.TableStructure{NumRows: len(rows), NumCols: len(cols)}
	for r := range rows {
		for c := range cols {
			members, ok := slots[[2]int{r, c}]
			if !ok {
				continue
			}
			sort.SliceStable(members, func(i, j int) bool {
				return members[i].BBox.MinX() < members[j].BBox.MinX()
			})
			texts := make([]string, len(members))
			box := members[0].BBox
			for i, m := range members {
				texts[i] = m.Text
				box = box.Union(m.BBox)
			}
			out.Cells = append(out.Cells, model.TableCell{
				Row:      r,
				Col:      c,
				RowSpan:  1,
				ColSpan:  1,
				Text:     strings.Join(texts, " "),
				BBox:     box,
				IsHeader: s.config.HeaderRow && r == 0,
			})
		}
	}
	return out
}

// rows groups cells into rows, top to bottom
func (s *GeometricStructurer) rows(cells []model.TextCell, origin model.Origin) [][]model.TextCell {
	sorted := make([]model.TextCell, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := origin.TopKey(sorted[i].BBox), origin.TopKey(sorted[j].BBox)
		if ki != kj {
			return ki < kj
		}
		return sorted[i].BBox.MinX() < sorted[j].BBox.MinX()
	})

	var rows [][]model.TextCell
	var minY, maxY float64
	for _, c := range sorted {
		cy := c.BBox.Center().Y
		if len(rows) > 0 && cy >= minY && cy <= maxY {
			last := len(rows) - 1
			rows[last] = append(rows[last], c)
			minY = min(minY, c.BBox.MinY())
			maxY = max(maxY, c.BBox.MaxY())
			continue
		}
		rows = append(rows, []model.TextCell{c})
		minY, maxY = c.BBox.MinY(), c.BBox.MaxY()
	}
	return rows
}

type span struct{ min, max float64 }

// columns merges the horizontal extents of the cells into column spans,
// left to right
func columns(cells []model.TextCell, gap float64) []span {
	spans := make([]span, len(cells))
	for i, c := range cells {
		spans[i] = span{c.BBox.MinX(), c.BBox.MaxX()}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].min < spans[j].min })

	out := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &out[len(out)-1]
		if sp.min-last.max < gap {
			last.max = max(last.max, sp.max)
			continue
		}
		out = append(out, sp)
	}
	return out
}

// findColumn returns the column containing x, or the nearest one
func findColumn(cols []span, x float64) int {
	best, bestDist := 0, -1.0
	for i, c := range cols {
		if x >= c.min && x <= c.max {
			return i
		}
		d := c.min - x
		if x > c.max {
			d = x - c.max
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *GeometricStructurer) columnGap(cells []model.TextCell) float64 {
	if s.config.ColumnGap > 0 {
		return s.config.ColumnGap
	}
	heights := make([]float64, len(cells))
	for i, c := range cells {
		heights[i] = c.BBox.Height()
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}
