// Package assembly reconciles layout-detector clusters with OCR text cells
// into non-overlapping, labeled page elements.
//
// # Stages
//
// Each stage is a pure function returning fresh values:
//
//   - [AssignCells] - give each cell to the cluster containing most of it
//   - [RemoveEmpty] - drop clusters without cells, except protected labels
//   - [CreateOrphans] - wrap unclaimed cells in singleton Text clusters
//   - [AdjustBBoxes] - grow cluster boxes over their cells
//   - [ResolveOverlaps] - merge clusters connected by high IoU (union-find)
//   - [Converge] - repeat AdjustBBoxes and ResolveOverlaps until stable
//   - [Assemble] - turn clusters into [model.Element] values
//
// # Pipeline
//
// [Pipeline] runs all stages for one page and finishes with reading order
// from the layout package:
//
//	p := assembly.NewPipeline()
//	page, stats := p.Process(input)
//
// After orphan creation every cell belongs to exactly one cluster, and
// after the merge loop no two clusters reach the merge threshold unless the
// iteration cap was hit (reported in [Stats] and logged as a warning).
//
// # Configuration
//
//	config := assembly.DefaultConfig()
//	config.MergeThreshold = 0.6
//	config.LabelPolicy.Strong = append(config.LabelPolicy.Strong, model.LabelCode)
//	p := assembly.NewPipelineWithConfig(config)
package assembly
