// Package pagelayout assembles layout-detector clusters and OCR text cells
// into ordered, labeled page elements.
//
// Basic usage:
//
//	res, warnings, err := pagelayout.New().Process(ctx, pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagelayout.FormatWarnings(warnings))
//	}
//	fmt.Println(res.Document.ExtractText())
//
// With options:
//
//	res, _, err := pagelayout.New().
//	    WithConfig(cfg).
//	    Workers(4).
//	    Logger(slog.Default()).
//	    TableStructurer(tables).
//	    Process(ctx, pages)
//
// The per-page stages live in the assembly package; reading order in the
// layout package.
package pagelayout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pagelayout/assembly"
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/model"
)

// TableStructurer recovers the row/column structure of a table region.
// Implementations wrap a table-structure model; they are called once per
// Table element and may be called concurrently for different pages.
type TableStructurer interface {
	StructureTable(ctx context.Context, page int, table *model.TableItem) (*model.TableStructure, error)
}

// Warning is a non-fatal problem found while processing a page
type Warning struct {
	Page    int
	Element string
	Message string
	Err     error
}

// String returns "page N: message" with the element id and cause when set
func (w Warning) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "page %d: ", w.Page)
	if w.Element != "" {
		sb.WriteString(w.Element)
		sb.WriteString(": ")
	}
	sb.WriteString(w.Message)
	if w.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(w.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error, if any
func (w Warning) Unwrap() error {
	return w.Err
}

// FormatWarnings joins warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Result is the output of a processing run
type Result struct {
	Document *model.Document
	// Stats holds the counters of each page, in page order
	Stats []assembly.Stats
}

// Processor runs the assembly pipeline over many pages. Each configuration
// method returns a new Processor, so a configured Processor can be shared.
type Processor struct {
	options Options
}

// New returns a Processor with default configuration
func New() *Processor {
	return &Processor{options: defaultOptions()}
}

// FromConfig returns a Processor configured from a loaded config file.
// The logger is built by the caller since only it knows the output.
func FromConfig(cfg config.Config, logger *slog.Logger) *Processor {
	return New().
		WithConfig(cfg.AssemblyConfig(logger)).
		Workers(cfg.Workers).
		Logger(logger)
}

// clone creates a copy so chained calls never share state.
func (p *Processor) clone() *Processor {
	return &Processor{options: p.options.clone()}
}

// WithConfig sets the pipeline configuration. It is validated by Process.
func (p *Processor) WithConfig(cfg assembly.Config) *Processor {
	out := p.clone()
	out.options.assembly = cfg
	out.options = out.options.clone()
	return out
}

// Workers sets how many pages are assembled concurrently. Values below 1
// mean one.
func (p *Processor) Workers(n int) *Processor {
	out := p.clone()
	if n < 1 {
		n = 1
	}
	out.options.workers = n
	return out
}

// Logger sets the logger for the processor and, unless the pipeline
// configuration has its own, for the pipeline stages
func (p *Processor) Logger(l *slog.Logger) *Processor {
	out := p.clone()
	out.options.logger = l
	return out
}

// TableStructurer sets the collaborator that fills table structure
func (p *Processor) TableStructurer(ts TableStructurer) *Processor {
	out := p.clone()
	out.options.tables = ts
	return out
}

// Process assembles every page. Pages are processed concurrently and
// returned in input order. Pages without a number are numbered by
// position. Table-structure failures and non-converging pages become
// warnings; an invalid configuration or a cancelled context is an error.
func (p *Processor) Process(ctx context.Context, pages []model.PageInput) (*Result, []Warning, error) {
	opts := p.options
	if err := opts.assembly.Validate(); err != nil {
		return nil, nil, err
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.assembly
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	pipeline := assembly.NewPipelineWithConfig(cfg)

	assembled := make([]*model.Page, len(pages))
	stats := make([]assembly.Stats, len(pages))
	warnings := make([][]Warning, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for i := range pages {
		i := i
		if gctx.Err() != nil {
			break
		}
		in := pages[i]
		if in.Number == 0 {
			in.Number = i + 1
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, st := pipeline.Process(in)
			if st.CapReached {
				warnings[i] = append(warnings[i], Warning{
					Page:    in.Number,
					Message: fmt.Sprintf("cluster merging did not converge after %d iterations", st.Iterations),
				})
			}
			warnings[i] = append(warnings[i], structureTables(gctx, opts.tables, page)...)
			assembled[i] = page
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	res := &Result{Document: model.NewDocument(), Stats: stats}
	var all []Warning
	elements := 0
	for i, page := range assembled {
		res.Document.AddPage(page)
		all = append(all, warnings[i]...)
		elements += len(page.Elements)
	}
	logger.Info("document assembled", "pages", len(pages), "elements", elements, "warnings", len(all))
	return res, all, nil
}

// structureTables asks ts for the structure of every table on the page
func structureTables(ctx context.Context, ts TableStructurer, page *model.Page) []Warning {
	if ts == nil {
		return nil
	}
	var warnings []Warning
	for _, table := range page.ExtractTables() {
		s, err := ts.StructureTable(ctx, page.Number, table)
		if err != nil {
			warnings = append(warnings, Warning{Page: page.Number, Element: table.ID(), Message: "table structure failed", Err: err})
			continue
		}
		if s == nil {
			continue
		}
		if err := s.Validate(); err != nil {
			warnings = append(warnings, Warning{Page: page.Number, Element: table.ID(), Message: "table structure rejected", Err: err})
			continue
		}
		table.Structure = s
	}
	return warnings
}

// Must is a helper that wraps a call to Process and panics if the error is
// non-nil. It discards warnings and is intended for scripts and tests.
//
// Example:
//
//	res := pagelayout.Must(pagelayout.New().Process(ctx, pages))
func Must[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
