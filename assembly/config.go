package assembly

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid assembly config")

// Config holds the policy points of page assembly
type Config struct {
	// ContainmentThreshold is the minimum fraction of a cell's area that must
	// lie inside a cluster for the cell to be assigned to it.
	// Default: 0.2
	ContainmentThreshold float64

	// TieBreak settles cells contained equally by several clusters.
	// Default: TieLowestID
	TieBreak TieBreak

	// MergeThreshold is the IoU at or above which two clusters are merged.
	// Default: 0.5
	MergeThreshold float64

	// MaxIterations caps the adjust/merge loop.
	// Default: 10
	MaxIterations int

	// ProtectedLabels survive empty removal without any cells.
	// Default: Table, Formula, Picture, Chart
	ProtectedLabels []model.Label

	// LabelPolicy decides the label of a merged cluster
	LabelPolicy LabelPolicy

	// ReadingOrder configures the final ordering step
	ReadingOrder layout.ReadingOrderConfig

	// CheckInvariants verifies cell coverage and id uniqueness after orphan
	// creation and panics on violation. Meant for tests and debug runs.
	CheckInvariants bool

	// Logger receives per-stage debug output and the iteration cap warning.
	// Nil means discard.
	Logger *slog.Logger
}

// LabelPolicy picks the label of a merged cluster. The member with the
// highest confidence wins (lowest id on ties). If the winner's label is in
// Weak and some member's label is in Strong, the most confident Strong
// member wins instead.
type LabelPolicy struct {
	Strong []model.Label
	Weak   []model.Label
}

// DefaultLabelPolicy lets tables and formulas win over prose labels
func DefaultLabelPolicy() LabelPolicy {
	return LabelPolicy{
		Strong: []model.Label{model.LabelTable, model.LabelFormula},
		Weak:   []model.Label{model.LabelText, model.LabelListItem},
	}
}

// DefaultProtectedLabels returns the labels whose clusters may have no cells
func DefaultProtectedLabels() []model.Label {
	return []model.Label{model.LabelTable, model.LabelFormula, model.LabelPicture, model.LabelChart}
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		ContainmentThreshold: 0.2,
		MergeThreshold:       0.5,
		MaxIterations:        10,
		TieBreak:             TieLowestID,
		ProtectedLabels:      DefaultProtectedLabels(),
		LabelPolicy:          DefaultLabelPolicy(),
		ReadingOrder:         layout.DefaultReadingOrderConfig(),
	}
}

// Validate checks the thresholds
func (c Config) Validate() error {
	if c.ContainmentThreshold <= 0 || c.ContainmentThreshold > 1 {
		return fmt.Errorf("%w: containment threshold %v not in (0,1]", ErrInvalidConfig, c.ContainmentThreshold)
	}
	if c.MergeThreshold <= 0 || c.MergeThreshold > 1 {
		return fmt.Errorf("%w: merge threshold %v not in (0,1]", ErrInvalidConfig, c.MergeThreshold)
	}
	if _, ok := tieBreakNames[c.TieBreak]; !ok {
		return fmt.Errorf("%w: unknown tie break %d", ErrInvalidConfig, int(c.TieBreak))
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d < 1", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func labelSet(labels []model.Label) map[model.Label]bool {
	set := make(map[model.Label]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
