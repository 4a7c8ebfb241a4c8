// Package tables recovers row/column structure for table regions from the
// positions of their text cells.
//
// [GeometricStructurer] implements the pagelayout.TableStructurer
// collaborator without a table-structure model:
//
//  1. Rows: cells sorted top to bottom; a cell whose vertical center lies
//     in the current row band joins it, otherwise it opens a new row
//  2. Columns: horizontal cell extents merged when the gap between them is
//     smaller than the column gap
//  3. Grid assignment by cell center; cells sharing a slot are joined left
//     to right
//  4. Occupancy check: too sparse a grid is not reported as a table
//
// # Configuration
//
//	config := tables.DefaultConfig()
//	config.MinRows = 3
//	config.Origin = model.BottomLeft
//	s := tables.NewGeometricStructurerWithConfig(config)
package tables
