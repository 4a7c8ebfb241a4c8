// Package export writes assembled documents as Markdown, HTML or JSON.
//
// Markdown follows reading order: titles and section headers become
// headings, list items and checkboxes form lists, tables use their
// structure when one is known, and pictures become a placeholder. Page
// headers and footers are left out unless Options.IncludeFurniture is set.
//
//	md := export.Markdown(doc, export.DefaultOptions())
//	page, _ := export.HTML(doc, export.DefaultOptions())
//	data, _ := export.JSON(doc)
package export
