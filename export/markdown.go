package export

import (
	"strings"

	"github.com/tsawler/pagelayout/model"
)

// Options holds configuration for Markdown and HTML export
type Options struct {
	// IncludeFurniture keeps page headers and footers
	IncludeFurniture bool

	// PageBreaks inserts a horizontal rule between pages
	PageBreaks bool

	// PicturePlaceholder is written for picture and chart elements; empty
	// omits them
	PicturePlaceholder string
}

// DefaultOptions returns sensible default options
func DefaultOptions() Options {
	return Options{
		PageBreaks:         true,
		PicturePlaceholder: "<!-- image -->",
	}
}

// Markdown renders every page of doc in reading order
func Markdown(doc *model.Document, opts Options) string {
	parts := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		if md := PageMarkdown(page, opts); md != "" {
			parts = append(parts, md)
		}
	}
	sep := "\n\n"
	if opts.PageBreaks {
		sep = "\n\n---\n\n"
	}
	out := strings.Join(parts, sep)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// PageMarkdown renders one page. Consecutive list items and checkboxes
// form one list; other blocks are separated by a blank line.
func PageMarkdown(page *model.Page, opts Options) string {
	var sb strings.Builder
	prevList := false
	for _, elem := range page.Elements {
		block, list := elementMarkdown(elem, opts)
		if block == "" {
			continue
		}
		if sb.Len() > 0 {
			if list && prevList {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(block)
		prevList = list
	}
	return sb.String()
}

// elementMarkdown returns the block for elem and whether it is a list entry
func elementMarkdown(elem model.Element, opts Options) (string, bool) {
	label := elem.Label()
	if label.IsFurniture() && !opts.IncludeFurniture {
		return "", false
	}

	switch e := elem.(type) {
	case *model.PictureItem:
		return opts.PicturePlaceholder, false
	case *model.TableItem:
		if e.Structure != nil {
			return strings.TrimRight(e.Structure.ToMarkdown(), "\n"), false
		}
		return escape(e.GetText()), false
	case *model.CodeItem:
		if e.Text == "" {
			return "", false
		}
		return "```\n" + e.Text + "\n```", false
	case *model.FormulaItem:
		if e.Text == "" {
			return "", false
		}
		return "$$\n" + e.Text + "\n$$", false
	case *model.CheckboxItem:
		mark := "[ ]"
		if e.Checked {
			mark = "[x]"
		}
		return strings.TrimSpace("- " + mark + " " + escape(e.Text)), true
	case model.TextElement:
		text := e.GetText()
		if text == "" {
			return "", false
		}
		switch label {
		case model.LabelTitle:
			return "# " + escape(text), false
		case model.LabelSectionHeader:
			return "## " + escape(text), false
		case model.LabelListItem:
			return "- " + escape(trimBullet(text)), true
		case model.LabelCaption, model.LabelFootnote:
			return "*" + escape(text) + "*", false
		}
		return escape(text), false
	}
	return "", false
}

var bullets = []string{"•", "◦", "▪", "‣", "-", "*", "–"}

// trimBullet removes a leading bullet glyph the OCR text kept
func trimBullet(text string) string {
	for _, b := range bullets {
		if rest, ok := strings.CutPrefix(text, b+" "); ok {
			return rest
		}
	}
	return text
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"|", `\|`,
	"<", "&lt;",
)

// escape makes OCR text safe to embed in Markdown
func escape(text string) string {
	return markdownEscaper.Replace(text)
}
