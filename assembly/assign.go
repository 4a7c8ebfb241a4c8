package assembly

import (
	"fmt"
	"strings"

	"github.com/tsawler/pagelayout/model"
)

// TieBreak decides which cluster receives a cell that two or more clusters
// contain to exactly the same degree
type TieBreak int

const (
	// TieLowestID gives the cell to the cluster with the lowest id
	TieLowestID TieBreak = iota
	// TieHighestConfidence gives the cell to the most confident cluster,
	// then to the lowest id
	TieHighestConfidence
)

var tieBreakNames = map[TieBreak]string{
	TieLowestID:          "lowest_id",
	TieHighestConfidence: "highest_confidence",
}

// String returns the snake_case name of the tie-break
func (t TieBreak) String() string {
	if name, ok := tieBreakNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TieBreak(%d)", int(t))
}

// MarshalText encodes the tie-break by name
func (t TieBreak) MarshalText() ([]byte, error) {
	if _, ok := tieBreakNames[t]; !ok {
		return nil, fmt.Errorf("%w: tie break %d", ErrInvalidConfig, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts lowest_id and highest_confidence, with dashes or
// underscores in any case
func (t *TieBreak) UnmarshalText(text []byte) error {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(text))), "-", "_")
	for tb, n := range tieBreakNames {
		if n == name {
			*t = tb
			return nil
		}
	}
	return fmt.Errorf("%w: unknown tie break %q", ErrInvalidConfig, string(text))
}

// prefers reports whether a wins a tie against b
func (t TieBreak) prefers(a, b model.LabeledCluster) bool {
	if t == TieHighestConfidence && a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.ID < b.ID
}

// AssignCells gives every cell to the cluster that contains the largest
// fraction of it, provided that fraction reaches threshold. Exact ties are
// settled by tie. Cells that reach the threshold nowhere are returned as
// unassigned, in input order. Cells with a zero-area box never reach the
// threshold.
//
// Cells are identified by position: the returned cells, assigned or not,
// carry Index equal to their position in cells, whatever Index the caller
// set. Pass the unassigned cells to CreateOrphans.
//
// The returned clusters follow the input order and own fresh cell slices.
func AssignCells(clusters []model.LabeledCluster, cells []model.TextCell, threshold float64, tie TieBreak) ([]model.Cluster, []model.TextCell) {
	out := make([]model.Cluster, len(clusters))
	for i, lc := range clusters {
		out[i] = model.NewCluster(lc)
	}

	var unassigned []model.TextCell
	for _, cell := range IndexCells(cells) {
		best := bestCluster(clusters, cell.BBox, threshold, tie)
		if best < 0 {
			unassigned = append(unassigned, cell)
			continue
		}
		out[best].Cells = append(out[best].Cells, cell)
	}
	return out, unassigned
}

// IndexCells returns a copy of cells numbered by position
func IndexCells(cells []model.TextCell) []model.TextCell {
	out := make([]model.TextCell, len(cells))
	for i, c := range cells {
		out[i] = c
		out[i].Index = i
	}
	return out
}

// bestCluster returns the index of the cluster that best contains box, or
// -1 when none reaches threshold
func bestCluster(clusters []model.LabeledCluster, box model.BBox, threshold float64, tie TieBreak) int {
	if box.IsDegenerate() {
		return -1
	}
	best := -1
	bestRatio := 0.0
	for i, c := range clusters {
		ratio := box.IntersectionOverSelf(c.BBox)
		if ratio <= 0 || ratio < threshold {
			continue
		}
		if best < 0 || ratio > bestRatio || (ratio == bestRatio && tie.prefers(c, clusters[best])) {
			best = i
			bestRatio = ratio
		}
	}
	return best
}
