package assembly

import (
	"log/slog"

	"github.com/tsawler/pagelayout/model"
)

// ConvergeResult reports how the adjust/merge loop ended
type ConvergeResult struct {
	Clusters   []model.Cluster
	Iterations int
	Merges     int
	CapReached bool
}

// Converge alternates AdjustBBoxes and ResolveOverlaps until a pass merges
// nothing or maxIterations passes have run. Every merge removes a cluster,
// so the loop settles after at most len(clusters)-1 merging passes; the
// cap only bounds pathological input. When it binds, the current clusters
// are returned and a warning is logged.
func Converge(clusters []model.Cluster, threshold float64, maxIterations int, policy LabelPolicy, logger *slog.Logger) ConvergeResult {
	res := ConvergeResult{Clusters: clusters}
	for res.Iterations < maxIterations {
		res.Iterations++
		adjusted := AdjustBBoxes(res.Clusters)
		merged, n := ResolveOverlaps(adjusted, threshold, policy)
		res.Clusters = merged
		res.Merges += n
		if n == 0 {
			return res
		}
	}

	res.CapReached = true
	if logger != nil {
		logger.Warn("cluster merging did not converge",
			"iterations", res.Iterations,
			"merges", res.Merges,
			"clusters", len(res.Clusters))
	}
	return res
}
