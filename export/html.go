package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/tsawler/pagelayout/model"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.TaskList),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// HTML renders the Markdown export of doc as an HTML fragment
func HTML(doc *model.Document, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(doc, opts)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
