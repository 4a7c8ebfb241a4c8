package assembly

import "github.com/tsawler/pagelayout/model"

// AdjustBBoxes grows every cluster box to cover all of its cells. Boxes
// never shrink.
func AdjustBBoxes(clusters []model.Cluster) []model.Cluster {
	out := make([]model.Cluster, len(clusters))
	for i, c := range clusters {
		out[i] = c.Clone()
		out[i].BBox = c.CellsBBox()
	}
	return out
}
