// pagelayout assembles layout-detector output and OCR text into ordered
// document elements and exports them.
//
// Usage:
//
//	pagelayout -detections detections.json [options]
//
// Text sources (optional; cells already present in the detections file
// are used otherwise):
//
//	-hocr string      hOCR file with one ocr_page per detection page
//	-image string     Comma-separated page images, OCRed with Tesseract
//	                  (requires a build with -tags ocr)
//
// Output options:
//
//	-format string    markdown, html, json or jsonl (default "markdown")
//	-out string       Output file (default stdout)
//	-overlay string   Directory for debug overlays; needs -image
//	-furniture        Keep page headers and footers in Markdown/HTML
//	-tables           Infer table rows and columns from cell positions
//
// Processing options:
//
//	-config string    YAML configuration file
//	-workers int      Pages processed concurrently (overrides config)
//	-log-level string debug, info, warn or error (overrides config)
//
// Examples:
//
//	pagelayout -detections doc.json -hocr doc.hocr -format html -out doc.html
//	pagelayout -detections scan.json -image p1.png,p2.png -overlay ./debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tsawler/pagelayout"
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/detection"
	"github.com/tsawler/pagelayout/export"
	"github.com/tsawler/pagelayout/hocr"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/ocr"
	"github.com/tsawler/pagelayout/render"
	"github.com/tsawler/pagelayout/tables"
)

type options struct {
	configPath string
	detections string
	hocrPath   string
	images     []string
	format     string
	out        string
	overlay    string
	furniture  bool
	tables     bool
	workers    int
	logLevel   string
}

func main() {
	var opts options
	var images string
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&opts.detections, "detections", "", "Layout detections JSON file (required)")
	flag.StringVar(&opts.hocrPath, "hocr", "", "hOCR file providing the text cells")
	flag.StringVar(&images, "image", "", "Comma-separated page images to OCR (build with -tags ocr)")
	flag.StringVar(&opts.format, "format", "markdown", "Output format: markdown, html, json or jsonl")
	flag.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	flag.StringVar(&opts.overlay, "overlay", "", "Directory for debug overlay images (needs -image)")
	flag.BoolVar(&opts.furniture, "furniture", false, "Keep page headers and footers in Markdown/HTML")
	flag.BoolVar(&opts.tables, "tables", false, "Infer table rows and columns from cell positions")
	flag.IntVar(&opts.workers, "workers", 0, "Pages processed concurrently (0 keeps the config value)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.Parse()

	if images != "" {
		opts.images = strings.Split(images, ",")
	}
	if opts.detections == "" {
		fmt.Fprintln(os.Stderr, "Error: -detections is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := cfg.Logger(stderr)

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.overlay != "" && len(opts.images) == 0 {
		return errors.New("-overlay needs -image")
	}

	pages, err := detection.LoadFile(opts.detections)
	if err != nil {
		return err
	}
	logger.Debug("detections loaded", "pages", len(pages))

	switch {
	case opts.hocrPath != "":
		hpages, err := hocr.ParseFile(opts.hocrPath)
		if err != nil {
			return err
		}
		pages = attachHOCR(pages, hpages)
	case len(opts.images) > 0:
		if pages, err = attachOCR(pages, opts.images); err != nil {
			return err
		}
	}

	processor := pagelayout.FromConfig(cfg, logger)
	if opts.tables {
		tcfg := tables.DefaultConfig()
		tcfg.PageOrigins = make(map[int]model.Origin, len(pages))
		for _, p := range pages {
			tcfg.PageOrigins[p.Number] = p.Origin
		}
		processor = processor.TableStructurer(tables.NewGeometricStructurerWithConfig(tcfg))
	}

	res, warnings, err := processor.Process(ctx, pages)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w.String())
	}

	if opts.overlay != "" {
		if err := writeOverlays(res.Document, opts.images, opts.overlay); err != nil {
			return err
		}
	}

	exportOpts := export.DefaultOptions()
	exportOpts.IncludeFurniture = opts.furniture
	if opts.out == "" {
		return export.Write(stdout, res.Document, format, exportOpts)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(f, res.Document, format, exportOpts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// attachHOCR replaces the cells of every detection page with the hOCR page
// of the same number and fills in an unknown page size
func attachHOCR(pages []model.PageInput, hpages []hocr.Page) []model.PageInput {
	byNumber := make(map[int]hocr.Page, len(hpages))
	for _, hp := range hpages {
		byNumber[hp.Number] = hp
	}

	out := make([]model.PageInput, len(pages))
	for i, p := range pages {
		out[i] = p
		hp, ok := byNumber[p.Number]
		if !ok {
			continue
		}
		out[i] = hp.Input(p.Clusters)
		if p.Width != 0 || p.Height != 0 {
			out[i].Width, out[i].Height = p.Width, p.Height
		}
	}
	return out
}

// attachOCR recognizes the i-th image as the i-th page
func attachOCR(pages []model.PageInput, images []string) ([]model.PageInput, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	out := append([]model.PageInput(nil), pages...)
	for i, path := range images {
		if i >= len(out) {
			break
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		gray, size, err := ocr.Preprocess(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		words, err := client.Recognize(gray)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out[i] = ocr.PageInput(out[i].Number, size, ocr.Cells(words), out[i].Clusters)
	}
	return out, nil
}

// writeOverlays draws the i-th page onto the i-th image. Images are
// oriented from their EXIF data, as they are for OCR.
func writeOverlays(doc *model.Document, images []string, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create overlay dir: %w", err)
	}
	for i, page := range doc.Pages {
		if i >= len(images) {
			break
		}
		img, err := imaging.Open(images[i], imaging.AutoOrientation(true))
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		out := render.Overlay(img, page, render.DefaultOptions())
		if err := render.Save(out, filepath.Join(dir, fmt.Sprintf("page-%d.png", page.Number))); err != nil {
			return err
		}
	}
	return nil
}
