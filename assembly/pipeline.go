package assembly

import (
	"log/slog"

	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
)

// Stats holds the diagnostic counters of one page run. They are advisory.
type Stats struct {
	ClustersIn        int
	CellsIn           int
	Assigned          int
	Unassigned        int
	AfterEmptyRemoval int
	Removed           int
	Orphans           int
	Iterations        int
	Merges            int
	CapReached        bool
	MaxIoU            float64
	ClustersOut       int
	Elements          int
}

// LogValue implements slog.LogValuer
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("clusters_in", s.ClustersIn),
		slog.Int("cells_in", s.CellsIn),
		slog.Int("assigned", s.Assigned),
		slog.Int("removed", s.Removed),
		slog.Int("orphans", s.Orphans),
		slog.Int("iterations", s.Iterations),
		slog.Int("merges", s.Merges),
		slog.Bool("cap_reached", s.CapReached),
		slog.Int("clusters_out", s.ClustersOut),
		slog.Int("elements", s.Elements),
	)
}

// Pipeline assembles one page at a time. It holds only configuration and is
// safe for concurrent use.
type Pipeline struct {
	config Config
	order  *layout.ReadingOrderDetector
	logger *slog.Logger
}

// NewPipeline creates a pipeline with default configuration
func NewPipeline() *Pipeline {
	return NewPipelineWithConfig(DefaultConfig())
}

// NewPipelineWithConfig creates a pipeline with custom configuration. The
// configuration is not validated; call Config.Validate first when it comes
// from user input.
func NewPipelineWithConfig(config Config) *Pipeline {
	return &Pipeline{
		config: config,
		order:  layout.NewReadingOrderDetectorWithConfig(config.ReadingOrder),
		logger: config.logger(),
	}
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() Config {
	return p.config
}

// Clusters runs cell assignment, empty removal, orphan creation and the
// adjust/merge loop, and returns the final clusters.
//
// Cells are re-indexed by their position in in.Cells; the input is not
// modified.
func (p *Pipeline) Clusters(in model.PageInput) ([]model.Cluster, Stats) {
	cells := IndexCells(in.Cells)
	stats := Stats{ClustersIn: len(in.Clusters), CellsIn: len(cells)}
	log := p.logger.With("page", in.Number)

	clusters, unassigned := AssignCells(in.Clusters, cells, p.config.ContainmentThreshold, p.config.TieBreak)
	stats.Assigned = len(cells) - len(unassigned)
	stats.Unassigned = len(unassigned)
	log.Debug("cells assigned", "assigned", stats.Assigned, "unassigned", stats.Unassigned)

	clusters = RemoveEmpty(clusters, p.config.ProtectedLabels)
	stats.AfterEmptyRemoval = len(clusters)
	stats.Removed = stats.ClustersIn - len(clusters)
	log.Debug("empty clusters removed", "removed", stats.Removed, "remaining", len(clusters))

	clusters, stats.Orphans = CreateOrphans(clusters, unassigned)
	log.Debug("orphan clusters created", "orphans", stats.Orphans)

	if p.config.CheckInvariants {
		if err := VerifyCoverage(cells, clusters); err != nil {
			panic("assembly: " + err.Error())
		}
		if err := VerifyUniqueIDs(clusters); err != nil {
			panic("assembly: " + err.Error())
		}
	}

	res := Converge(clusters, p.config.MergeThreshold, p.config.MaxIterations, p.config.LabelPolicy, log)
	stats.Iterations = res.Iterations
	stats.Merges = res.Merges
	stats.CapReached = res.CapReached
	stats.MaxIoU = MaxPairwiseIoU(res.Clusters)
	stats.ClustersOut = len(res.Clusters)
	log.Debug("clusters converged", "iterations", res.Iterations, "merges", res.Merges)

	return res.Clusters, stats
}

// Process assembles a page: clusters are built as in Clusters, turned into
// elements and put in reading order.
func (p *Pipeline) Process(in model.PageInput) (*model.Page, Stats) {
	clusters, stats := p.Clusters(in)

	elements := Assemble(clusters, in.Origin)
	elements = p.order.Order(elements, in.Width, in.Origin)
	stats.Elements = len(elements)

	page := model.NewPage(in.Width, in.Height)
	page.Number = in.Number
	page.Origin = in.Origin
	page.Elements = append(page.Elements, elements...)

	p.logger.Debug("page assembled", "page", in.Number, "stats", stats)
	return page, stats
}
