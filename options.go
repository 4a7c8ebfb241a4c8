package pagelayout

import (
	"log/slog"
	"runtime"

	"github.com/tsawler/pagelayout/assembly"
)

// Options holds the processor configuration
type Options struct {
	assembly assembly.Config
	workers  int
	logger   *slog.Logger
	tables   TableStructurer
}

// defaultOptions returns the default processing options.
func defaultOptions() Options {
	return Options{
		assembly: assembly.DefaultConfig(),
		workers:  runtime.NumCPU(),
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	out := o
	out.assembly.ProtectedLabels = append(out.assembly.ProtectedLabels[:0:0], o.assembly.ProtectedLabels...)
	out.assembly.LabelPolicy.Strong = append(out.assembly.LabelPolicy.Strong[:0:0], o.assembly.LabelPolicy.Strong...)
	out.assembly.LabelPolicy.Weak = append(out.assembly.LabelPolicy.Weak[:0:0], o.assembly.LabelPolicy.Weak...)
	return out
}
