// Package hocr reads Tesseract hOCR output into text cells.
//
// Every ocrx_word span becomes one model.TextCell with the span's bbox, its
// x_wconf divided by 100 as confidence, and bold/italic flags from nested
// <strong>/<b> and <em>/<i> tags. hOCR boxes use the image convention, so
// the returned pages have a top-left origin.
package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/pagelayout/model"
)

// ErrNoPages is returned when the document has no ocr_page element
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// Page holds the words of one ocr_page
type Page struct {
	// Number is ppageno+1 when present, otherwise the page's position
	// starting at 1
	Number int
	Width  float64
	Height float64
	Cells  []model.TextCell
}

// Input builds pipeline input for the page from detector clusters
func (p Page) Input(clusters []model.LabeledCluster) model.PageInput {
	return model.PageInput{
		Number:   p.Number,
		Width:    p.Width,
		Height:   p.Height,
		Origin:   model.TopLeft,
		Clusters: clusters,
		Cells:    p.Cells,
	}
}

// ParseFile parses the hOCR file at path
func ParseFile(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hocr: %w", err)
	}
	return Parse(data)
}

// Parse converts raw hOCR data into pages of cells
func Parse(data []byte) ([]Page, error) {
	if enc := declaredEncoding(data); enc != nil {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode hocr: %w", err)
		}
		data = decoded
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}

	var pages []Page
	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			pages = append(pages, parsePage(n, len(pages)+1))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}

// declaredEncoding returns the decoder for a non-UTF-8 charset declaration,
// or nil when the data is UTF-8
func declaredEncoding(data []byte) encoding.Encoding {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	i := bytes.Index(bytes.ToLower(head), []byte("charset="))
	if i < 0 {
		return nil
	}
	rest := string(head[i+len("charset="):])
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "utf-8", "utf8":
		return nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	case "iso-8859-15", "latin-9":
		return charmap.ISO8859_15
	case "iso-8859-2", "latin2":
		return charmap.ISO8859_2
	default:
		return charmap.ISO8859_1
	}
}

func parsePage(n *html.Node, position int) Page {
	page := Page{Number: position}
	props := parseTitle(attr(n, "title"))
	if box, ok := titleBBox(props); ok {
		page.Width = box.Width()
		page.Height = box.Height()
	}
	if v, ok := props["ppageno"]; ok && len(v) > 0 {
		if no, err := strconv.Atoi(v[0]); err == nil {
			page.Number = no + 1
		}
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
			if cell, ok := parseWord(c); ok {
				cell.Index = len(page.Cells)
				page.Cells = append(page.Cells, cell)
			}
			return
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return page
}

func parseWord(n *html.Node) (model.TextCell, bool) {
	props := parseTitle(attr(n, "title"))
	box, ok := titleBBox(props)
	if !ok {
		return model.TextCell{}, false
	}

	var sb strings.Builder
	var style model.TextStyle
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			switch c.Data {
			case "strong", "b":
				style.Bold = true
			case "em", "i":
				style.Italic = true
			}
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return model.TextCell{}, false
	}

	cell := model.TextCell{Text: text, BBox: box, Style: style}
	if v, ok := props["x_wconf"]; ok && len(v) > 0 {
		if conf, err := strconv.ParseFloat(v[0], 64); err == nil {
			conf /= 100
			cell.Confidence = &conf
		}
	}
	return cell, true
}

// parseTitle splits an hOCR title such as "bbox 100 200 300 400; x_wconf 95"
// into its properties
func parseTitle(title string) map[string][]string {
	props := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			props[items[0]] = items[1:]
		}
	}
	return props
}

func titleBBox(props map[string][]string) (model.BBox, bool) {
	v, ok := props["bbox"]
	if !ok || len(v) < 4 {
		return model.BBox{}, false
	}
	var coords [4]float64
	for i := range coords {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return model.BBox{}, false
		}
		coords[i] = f
	}
	return model.NewBBox(coords[0], coords[1], coords[2], coords[3]), true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
