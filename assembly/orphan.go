package assembly

import "github.com/tsawler/pagelayout/model"

// OrphanConfidence is the confidence of clusters synthesized for unclaimed
// cells. They are backed by recognized text, not a model hypothesis.
const OrphanConfidence = 1.0

// OrphanClassID marks synthesized clusters in the raw class id field
const OrphanClassID = -1

// CreateOrphans wraps every cell of cells that no cluster holds in a new
// singleton Text cluster with the cell's own box. New ids start above the
// largest existing id and follow cell order. It returns the extended
// cluster list and the number of orphans created.
//
// Cells are matched by Index, so cells must come from AssignCells, which
// numbers them by position.
func CreateOrphans(clusters []model.Cluster, cells []model.TextCell) ([]model.Cluster, int) {
	claimed := make(map[int]bool)
	nextID := 0
	for _, c := range clusters {
		for _, cell := range c.Cells {
			claimed[cell.Index] = true
		}
		if c.ID >= nextID {
			nextID = c.ID + 1
		}
	}

	out := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.Clone())
	}

	orphans := 0
	for _, cell := range cells {
		if claimed[cell.Index] {
			continue
		}
		claimed[cell.Index] = true
		out = append(out, model.Cluster{
			LabeledCluster: model.LabeledCluster{
				ID:         nextID,
				Label:      model.LabelText,
				BBox:       cell.BBox,
				Confidence: OrphanConfidence,
				ClassID:    OrphanClassID,
			},
			Cells: []model.TextCell{cell},
		})
		nextID++
		orphans++
	}
	return out, orphans
}
