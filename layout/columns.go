package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pagelayout/model"
)

// Band is a vertical column band: a group of elements whose horizontal
// ranges overlap, directly or through other members
type Band struct {
	// Index of the band (0-based, left to right)
	Index int

	// Horizontal extent of the band
	MinX, MaxX float64

	// Elements in the band, in input order
	Elements []model.Element
}

// Width returns the width of the band
func (b Band) Width() float64 {
	return b.MaxX - b.MinX
}

// ColumnConfig holds configuration for column band detection
type ColumnConfig struct {
	// MinOverlap is the horizontal overlap two elements need, in page units,
	// to share a band. Ranges that only touch never share a band.
	// Default: 0
	MinOverlap float64
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		MinOverlap: 0,
	}
}

// ColumnLayout is the result of column band detection
type ColumnLayout struct {
	// Bands sorted left to right
	Bands []Band

	// Bridges are elements that overlap two or more bands which would be
	// disjoint without them, such as a centered page number below two
	// columns. They belong to no band. Input order.
	Bridges []model.Element
}

// ColumnDetector groups elements into column bands
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a new column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{
		config: DefaultColumnConfig(),
	}
}

// NewColumnDetectorWithConfig creates a column detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{
		config: config,
	}
}

// Detect groups elements into bands sorted left to right.
//
// Elements are placed widest first, so columns are laid down by their body
// text before narrow elements are considered. An element joins the one band
// its horizontal range overlaps, widening it, or starts a new band when it
// overlaps none. An element overlapping two or more bands is a bridge and
// is set aside. Chains of overlapping elements still end up in one band as
// long as no link in the chain is narrower than the bands it connects.
func (d *ColumnDetector) Detect(elements []model.Element) *ColumnLayout {
	result := &ColumnLayout{}
	if len(elements) == 0 {
		return result
	}

	order := make([]int, len(elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ba, bb := elements[order[a]].BoundingBox(), elements[order[b]].BoundingBox()
		if ba.Width() != bb.Width() {
			return ba.Width() > bb.Width()
		}
		if ba.MinX() != bb.MinX() {
			return ba.MinX() < bb.MinX()
		}
		return elements[order[a]].ClusterID() < elements[order[b]].ClusterID()
	})

	var bands []Band
	var members [][]int
	var bridges []int
	for _, idx := range order {
		box := elements[idx].BoundingBox()
		hit := -1
		bridge := false
		for i := range bands {
			if d.overlaps(bands[i], box) {
				if hit >= 0 {
					bridge = true
					break
				}
				hit = i
			}
		}
		switch {
		case bridge:
			bridges = append(bridges, idx)
		case hit >= 0:
			b := &bands[hit]
			b.MinX = math.Min(b.MinX, box.MinX())
			b.MaxX = math.Max(b.MaxX, box.MaxX())
			members[hit] = append(members[hit], idx)
		default:
			bands = append(bands, Band{MinX: box.MinX(), MaxX: box.MaxX()})
			members = append(members, []int{idx})
		}
	}

	// Bands left to right, input order inside each band
	byX := make([]int, len(bands))
	for i := range byX {
		byX[i] = i
	}
	sort.SliceStable(byX, func(a, b int) bool { return bands[byX[a]].MinX < bands[byX[b]].MinX })
	for pos, i := range byX {
		band := bands[i]
		band.Index = pos
		sort.Ints(members[i])
		band.Elements = make([]model.Element, len(members[i]))
		for j, idx := range members[i] {
			band.Elements[j] = elements[idx]
		}
		result.Bands = append(result.Bands, band)
	}

	sort.Ints(bridges)
	for _, idx := range bridges {
		result.Bridges = append(result.Bridges, elements[idx])
	}
	return result
}

// overlaps reports whether box shares more than MinOverlap of horizontal
// range with the band
func (d *ColumnDetector) overlaps(b Band, box model.BBox) bool {
	return math.Min(b.MaxX, box.MaxX())-math.Max(b.MinX, box.MinX()) > d.config.MinOverlap
}
