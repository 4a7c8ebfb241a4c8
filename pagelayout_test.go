package pagelayout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pagelayout/assembly"
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/model"
)

func textPage(number int, text string) model.PageInput {
	return model.PageInput{
		Number: number,
		Width:  200,
		Height: 100,
		Clusters: []model.LabeledCluster{
			{ID: 0, Label: model.LabelText, BBox: model.NewBBox(0, 0, 100, 20), Confidence: 0.9},
		},
		Cells: []model.TextCell{{Text: text, BBox: model.NewBBox(10, 5, 50, 15)}},
	}
}

func tablePage(number int) model.PageInput {
	return model.PageInput{
		Number: number,
		Clusters: []model.LabeledCluster{
			{ID: 4, Label: model.LabelTable, BBox: model.NewBBox(0, 0, 100, 100), Confidence: 0.8},
		},
		Cells: []model.TextCell{
			{Text: "a", BBox: model.NewBBox(10, 10, 20, 20)},
			{Text: "b", BBox: model.NewBBox(60, 10, 70, 20)},
		},
	}
}

type fakeTables struct {
	mu    sync.Mutex
	calls []int
	fn    func(page int) (*model.TableStructure, error)
}

func (f *fakeTables) StructureTable(_ context.Context, page int, _ *model.TableItem) (*model.TableStructure, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	f.mu.Unlock()
	return f.fn(page)
}

func TestProcessKeepsPageOrder(t *testing.T) {
	var pages []model.PageInput
	for i := 0; i < 20; i++ {
		pages = append(pages, textPage(0, fmt.Sprintf("page-%d", i)))
	}

	res, warnings, err := New().Workers(4).Process(context.Background(), pages)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Equal(t, 20, res.Document.PageCount())
	require.Len(t, res.Stats, 20)

	for i, page := range res.Document.Pages {
		assert.Equal(t, i+1, page.Number)
		require.Len(t, page.Elements, 1)
		assert.Equal(t, fmt.Sprintf("page-%d", i), page.Elements[0].(*model.TextItem).Text)
		assert.Equal(t, 1, res.Stats[i].Elements)
	}
}

func TestProcessEmpty(t *testing.T) {
	res, warnings, err := New().Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Zero(t, res.Document.PageCount())
}

func TestProcessTableStructurer(t *testing.T) {
	boom := errors.New("model unavailable")
	tables := &fakeTables{fn: func(page int) (*model.TableStructure, error) {
		switch page {
		case 1:
			return &model.TableStructure{NumRows: 1, NumCols: 2, Cells: []model.TableCell{
				{Row: 0, Col: 0, Text: "a"}, {Row: 0, Col: 1, Text: "b"},
			}}, nil
		case 2:
			return nil, boom
		case 3:
			return &model.TableStructure{NumRows: 1, NumCols: 1, Cells: []model.TableCell{{Row: 3, Col: 0}}}, nil
		}
		return nil, nil
	}}

	pages := []model.PageInput{tablePage(1), tablePage(2), tablePage(3), tablePage(4)}
	res, warnings, err := New().TableStructurer(tables).Process(context.Background(), pages)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, tables.calls)

	first := res.Document.GetPage(1).ExtractTables()
	require.Len(t, first, 1)
	require.NotNil(t, first[0].Structure)
	assert.Equal(t, "a\tb\n", first[0].GetText())

	for _, n := range []int{2, 3, 4} {
		assert.Nil(t, res.Document.GetPage(n).ExtractTables()[0].Structure, "page %d", n)
	}

	require.Len(t, warnings, 2)
	assert.Equal(t, 2, warnings[0].Page)
	assert.Equal(t, "#/elements/4", warnings[0].Element)
	assert.True(t, errors.Is(warnings[0].Err, boom))
	assert.Equal(t, 3, warnings[1].Page)
	assert.Equal(t, "table structure rejected", warnings[1].Message)
}

func TestProcessCapWarning(t *testing.T) {
	cfg := assembly.DefaultConfig()
	cfg.MaxIterations = 1
	page := model.PageInput{
		Number: 1,
		Clusters: []model.LabeledCluster{
			{ID: 0, Label: model.LabelText, BBox: model.NewBBox(0, 0, 100, 100), Confidence: 0.9},
			{ID: 1, Label: model.LabelText, BBox: model.NewBBox(25, 0, 125, 100), Confidence: 0.8},
		},
		Cells: []model.TextCell{
			{Text: "x", BBox: model.NewBBox(1, 1, 10, 10)},
			{Text: "y", BBox: model.NewBBox(110, 1, 120, 10)},
		},
	}

	res, warnings, err := New().WithConfig(cfg).Process(context.Background(), []model.PageInput{page})
	require.NoError(t, err)
	assert.True(t, res.Stats[0].CapReached)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "did not converge")
}

func TestProcessInvalidConfig(t *testing.T) {
	cfg := assembly.DefaultConfig()
	cfg.MergeThreshold = 0

	_, _, err := New().WithConfig(cfg).Process(context.Background(), []model.PageInput{textPage(1, "x")})
	assert.True(t, errors.Is(err, assembly.ErrInvalidConfig))
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New().Process(ctx, []model.PageInput{textPage(1, "x"), textPage(2, "y")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := New().Logger(logger).Process(context.Background(), []model.PageInput{textPage(1, "x")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "document assembled")
	assert.Contains(t, buf.String(), "page assembled", "pipeline inherits the logger")
}

func TestBuilderIsImmutable(t *testing.T) {
	base := New()
	two := base.Workers(2)
	zero := base.Workers(0)

	assert.Equal(t, runtime.NumCPU(), base.options.workers)
	assert.Equal(t, 2, two.options.workers)
	assert.Equal(t, 1, zero.options.workers)

	cfg := assembly.DefaultConfig()
	withCfg := base.WithConfig(cfg)
	cfg.ProtectedLabels[0] = model.LabelText
	assert.Equal(t, model.LabelTable, withCfg.options.assembly.ProtectedLabels[0])
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte("workers: 3\nassembly:\n  merge_threshold: 0.7\n"))
	require.NoError(t, err)

	p := FromConfig(cfg, nil)
	assert.Equal(t, 3, p.options.workers)
	assert.Equal(t, 0.7, p.options.assembly.MergeThreshold)

	res := Must(p.Process(context.Background(), []model.PageInput{textPage(1, "x")}))
	assert.Equal(t, 1, res.Document.PageCount())
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() {
		Must(0, nil, errors.New("failed"))
	})
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Page: 1, Message: "cluster merging did not converge after 10 iterations"},
		{Page: 2, Element: "#/elements/3", Message: "table structure failed", Err: errors.New("timeout")},
	}
	assert.Equal(t,
		"page 1: cluster merging did not converge after 10 iterations\n"+
			"page 2: #/elements/3: table structure failed: timeout",
		FormatWarnings(warnings))
}
