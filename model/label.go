package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is returned when a label name is not recognized.
var ErrUnknownLabel = errors.New("unknown label")

// Label is the semantic class of a layout region
type Label int

const (
	LabelText Label = iota
	LabelTitle
	LabelSectionHeader
	LabelTable
	LabelPicture
	LabelChart
	LabelListItem
	LabelCode
	LabelCaption
	LabelFootnote
	LabelFormula
	LabelPageHeader
	LabelPageFooter
	LabelReference
	LabelForm
	LabelCheckboxSelected
	LabelCheckboxUnselected
	LabelKeyValueRegion
)

var labelNames = [...]string{
	LabelText:               "text",
	LabelTitle:              "title",
	LabelSectionHeader:      "section_header",
	LabelTable:              "table",
	LabelPicture:            "picture",
	LabelChart:              "chart",
	LabelListItem:           "list_item",
	LabelCode:               "code",
	LabelCaption:            "caption",
	LabelFootnote:           "footnote",
	LabelFormula:            "formula",
	LabelPageHeader:         "page_header",
	LabelPageFooter:         "page_footer",
	LabelReference:          "reference",
	LabelForm:               "form",
	LabelCheckboxSelected:   "checkbox_selected",
	LabelCheckboxUnselected: "checkbox_unselected",
	LabelKeyValueRegion:     "key_value_region",
}

// Labels returns every label in declaration order
func Labels() []Label {
	out := make([]Label, len(labelNames))
	for i := range labelNames {
		out[i] = Label(i)
	}
	return out
}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel converts a label name to a Label. Matching ignores case and
// accepts '-' or ' ' in place of '_'.
func ParseLabel(name string) (Label, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for i, n := range labelNames {
		if n == key {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}

// MarshalText implements encoding.TextMarshaler
func (l Label) MarshalText() ([]byte, error) {
	if l < 0 || int(l) >= len(labelNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLabel, int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// IsText reports whether the label marks a plain text-bearing region whose
// content is its OCR text.
func (l Label) IsText() bool {
	switch l {
	case LabelText, LabelTitle, LabelSectionHeader, LabelListItem, LabelCaption,
		LabelFootnote, LabelPageHeader, LabelPageFooter, LabelReference:
		return true
	}
	return false
}

// IsPicture reports whether the label marks an image-like region
func (l Label) IsPicture() bool {
	return l == LabelPicture || l == LabelChart
}

// IsFurniture reports whether the label marks page furniture (running
// headers and footers) rather than body content.
func (l Label) IsFurniture() bool {
	return l == LabelPageHeader || l == LabelPageFooter
}
