// Package model provides the data types shared by every stage of page
// assembly.
//
// # Inputs
//
// Two independent collaborators describe a page:
//
//   - [LabeledCluster] - a region hypothesis from a layout detector, with a
//     [Label], a [BBox] and a confidence score
//   - [TextCell] - a piece of OCR text with its own [BBox]
//
// Both are bundled per page in a [PageInput].
//
// # Clusters
//
// A [Cluster] is a labeled region plus the text cells assigned to it. The
// assembly stages create, filter, expand and merge clusters until they are
// turned into elements.
//
// # Elements
//
// All assembled content implements the [Element] interface. The concrete
// types are:
//
//   - [TextItem] - paragraphs, titles, headers, list items, captions, ...
//   - [CodeItem], [FormulaItem] - code listings and formulas
//   - [TableItem] - table placeholder, optionally with a [TableStructure]
//   - [PictureItem] - pictures and charts
//   - [CheckboxItem] - selected or unselected checkboxes
//   - [ContainerItem] - forms and key-value regions
//
// Elements are collected into a [Page] and pages into a [Document].
//
// # Geometry
//
// [BBox] stores four edges without assuming which way the axes point.
// Area, intersection, intersection-over-self and IoU all work on absolute
// extents, so boxes from top-left (image) and bottom-left (PDF) producers
// give the same answers. [Origin] records the convention only where
// ordering needs it.
package model
