package assembly

import (
	"sort"

	"github.com/tsawler/pagelayout/model"
)

// ResolveOverlaps merges every group of clusters connected by pairwise IoU
// at or above threshold. Connection is transitive: if A overlaps B and B
// overlaps C, all three merge even when A and C do not overlap.
//
// A merged cluster keeps the smallest member id and the position of its
// first member in the input. It returns the new cluster list and the number
// of clusters absorbed by merging.
func ResolveOverlaps(clusters []model.Cluster, threshold float64, policy LabelPolicy) ([]model.Cluster, int) {
	if len(clusters) < 2 {
		return cloneAll(clusters), 0
	}

	byID := make([]int, len(clusters))
	ids := make([]int, len(clusters))
	for i := range clusters {
		byID[i] = i
		ids[i] = clusters[i].ID
	}
	sort.SliceStable(byID, func(a, b int) bool {
		return clusters[byID[a]].ID < clusters[byID[b]].ID
	})

	uf := newUnionFind(ids)
	merged := false
	for a := 0; a < len(byID); a++ {
		ca := clusters[byID[a]]
		for b := a + 1; b < len(byID); b++ {
			cb := clusters[byID[b]]
			if ca.BBox.IoU(cb.BBox) >= threshold && uf.union(ca.ID, cb.ID) {
				merged = true
			}
		}
	}
	if !merged {
		return cloneAll(clusters), 0
	}

	groups := make(map[int][]model.Cluster)
	var roots []int
	for _, c := range clusters {
		root := uf.find(c.ID)
		if _, seen := groups[root]; !seen {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], c)
	}

	out := make([]model.Cluster, 0, len(roots))
	for _, root := range roots {
		members := groups[root]
		if len(members) == 1 {
			out = append(out, members[0].Clone())
			continue
		}
		out = append(out, mergeClusters(members, policy))
	}
	return out, len(clusters) - len(out)
}

// mergeClusters combines a group into one cluster: smallest id, union box,
// cells concatenated in id order without duplicates, highest confidence and
// the label chosen by policy.
func mergeClusters(members []model.Cluster, policy LabelPolicy) model.Cluster {
	sorted := make([]model.Cluster, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	winner := sorted[policy.choose(sorted)]
	merged := model.Cluster{
		LabeledCluster: model.LabeledCluster{
			ID:         sorted[0].ID,
			Label:      winner.Label,
			BBox:       sorted[0].BBox,
			Confidence: sorted[0].Confidence,
			ClassID:    winner.ClassID,
		},
	}

	seen := make(map[int]bool)
	for _, m := range sorted {
		merged.BBox = merged.BBox.Union(m.BBox)
		if m.Confidence > merged.Confidence {
			merged.Confidence = m.Confidence
		}
		for _, cell := range m.Cells {
			if seen[cell.Index] {
				continue
			}
			seen[cell.Index] = true
			merged.Cells = append(merged.Cells, cell)
		}
	}
	return merged
}

// choose returns the index of the member whose label the merged cluster
// takes. members must be sorted by id.
func (p LabelPolicy) choose(members []model.Cluster) int {
	best := mostConfident(members, func(model.Cluster) bool { return true })

	if !labelSet(p.Weak)[members[best].Label] {
		return best
	}
	strong := labelSet(p.Strong)
	if s := mostConfident(members, func(c model.Cluster) bool { return strong[c.Label] }); s >= 0 {
		return s
	}
	return best
}

// mostConfident returns the first member with the highest confidence among
// those accepted by keep, or -1
func mostConfident(members []model.Cluster, keep func(model.Cluster) bool) int {
	best := -1
	for i, m := range members {
		if !keep(m) {
			continue
		}
		if best < 0 || m.Confidence > members[best].Confidence {
			best = i
		}
	}
	return best
}

func cloneAll(clusters []model.Cluster) []model.Cluster {
	out := make([]model.Cluster, len(clusters))
	for i, c := range clusters {
		out[i] = c.Clone()
	}
	return out
}
