// Package layout orders assembled page elements for reading.
//
// # Reading Order
//
// The [ReadingOrderDetector] takes the elements of one page and returns
// them in reading sequence:
//
//	detector := layout.NewReadingOrderDetector()
//	ordered := detector.Order(page.Elements, page.Width, page.Origin)
//
// Elements are ordered by their top edge. Elements whose horizontal ranges
// do not overlap belong to different column bands, found by the
// [ColumnDetector]; bands are read left to right, each band top to bottom.
// Wide elements (titles, full-width figures) split the page into strips so
// a multi-column body below a title keeps its column order.
//
// # Configuration
//
//	config := layout.DefaultReadingOrderConfig()
//	config.SpanningThreshold = 0.8
//	detector := layout.NewReadingOrderDetectorWithConfig(config)
//
// Caption-to-figure linking, footnote separation and cross-page paragraph
// merging are left to richer reading-order models layered on top.
package layout
