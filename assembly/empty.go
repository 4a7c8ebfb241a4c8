package assembly

import "github.com/tsawler/pagelayout/model"

// RemoveEmpty drops clusters without cells unless their label is protected.
// Surviving clusters keep their order.
func RemoveEmpty(clusters []model.Cluster, protected []model.Label) []model.Cluster {
	keep := labelSet(protected)
	out := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Cells) > 0 || keep[c.Label] {
			out = append(out, c.Clone())
		}
	}
	return out
}
