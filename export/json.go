package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/pagelayout/model"
)

// Record is the JSON form of one element
type Record struct {
	Page      int                   `json:"page"`
	ID        string                `json:"id"`
	ClusterID int                   `json:"cluster_id"`
	Label     model.Label           `json:"label"`
	BBox      model.BBox            `json:"bbox"`
	Text      string                `json:"text,omitempty"`
	Cells     int                   `json:"cells"`
	Checked   *bool                 `json:"checked,omitempty"`
	Table     *model.TableStructure `json:"table,omitempty"`
}

// PageRecord is the JSON form of one page
type PageRecord struct {
	Number   int      `json:"page"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Origin   string   `json:"origin"`
	Elements []Record `json:"elements"`
}

// Records flattens the elements of a page in reading order
func Records(page *model.Page) []Record {
	out := make([]Record, 0, len(page.Elements))
	for _, elem := range page.Elements {
		r := Record{
			Page:      page.Number,
			ID:        elem.ID(),
			ClusterID: elem.ClusterID(),
			Label:     elem.Label(),
			BBox:      elem.BoundingBox(),
		}
		if t, ok := elem.(model.TextElement); ok {
			r.Text = t.GetText()
		}
		switch e := elem.(type) {
		case *model.TextItem:
			r.Cells = len(e.Cells)
		case *model.CodeItem:
			r.Cells = len(e.Cells)
		case *model.FormulaItem:
			r.Cells = len(e.Cells)
		case *model.ContainerItem:
			r.Cells = len(e.Cells)
		case *model.TableItem:
			r.Cells = len(e.Cells)
			r.Table = e.Structure
		case *model.CheckboxItem:
			checked := e.Checked
			r.Checked = &checked
		}
		out = append(out, r)
	}
	return out
}

// JSON encodes doc as an indented list of pages
func JSON(doc *model.Document) ([]byte, error) {
	pages := make([]PageRecord, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		pages = append(pages, PageRecord{
			Number:   page.Number,
			Width:    page.Width,
			Height:   page.Height,
			Origin:   page.Origin.String(),
			Elements: Records(page),
		})
	}
	data, err := json.MarshalIndent(map[string]any{"pages": pages}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// JSONL writes one Record per line
func JSONL(w io.Writer, doc *model.Document) error {
	enc := json.NewEncoder(w)
	for _, page := range doc.Pages {
		for _, r := range Records(page) {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encode jsonl: %w", err)
			}
		}
	}
	return nil
}

// Write exports doc to w in the given format
func Write(w io.Writer, doc *model.Document, format Format, opts Options) error {
	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(Markdown(doc, opts))
	case FormatHTML:
		out, err := HTML(doc, opts)
		if err != nil {
			return err
		}
		data = []byte(out)
	case FormatJSON:
		out, err := JSON(doc)
		if err != nil {
			return err
		}
		data = append(out, '\n')
	case FormatJSONL:
		return JSONL(w, doc)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	_, err := w.Write(data)
	return err
}
