package assembly

import (
	"fmt"

	"github.com/tsawler/pagelayout/model"
)

// VerifyCoverage checks that every cell appears in exactly one cluster
func VerifyCoverage(cells []model.TextCell, clusters []model.Cluster) error {
	owner := make(map[int]int, len(cells))
	for _, c := range clusters {
		for _, cell := range c.Cells {
			if prev, dup := owner[cell.Index]; dup {
				return fmt.Errorf("cell %d held by clusters %d and %d", cell.Index, prev, c.ID)
			}
			owner[cell.Index] = c.ID
		}
	}
	for _, cell := range cells {
		if _, ok := owner[cell.Index]; !ok {
			return fmt.Errorf("cell %d (%q) not held by any cluster", cell.Index, cell.Text)
		}
	}
	return nil
}

// VerifyUniqueIDs checks that no two clusters share an id
func VerifyUniqueIDs(clusters []model.Cluster) error {
	seen := make(map[int]bool, len(clusters))
	for _, c := range clusters {
		if seen[c.ID] {
			return fmt.Errorf("duplicate cluster id %d", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// MaxPairwiseIoU returns the largest IoU between any two clusters
func MaxPairwiseIoU(clusters []model.Cluster) float64 {
	best := 0.0
	for i := range clusters {
		for j := i + 1; j < len(clusters); j++ {
			if iou := clusters[i].BBox.IoU(clusters[j].BBox); iou > best {
				best = iou
			}
		}
	}
	return best
}
