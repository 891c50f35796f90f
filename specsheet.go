// Package specsheet renders configured pages, inventories their interactive
// elements, numbers them on an annotated screenshot and writes one workbook
// sheet per page.
package specsheet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anxuanzi/specsheet-go/action"
	"github.com/anxuanzi/specsheet-go/browser"
	"github.com/anxuanzi/specsheet-go/config"
	"github.com/anxuanzi/specsheet-go/dom"
	"github.com/anxuanzi/specsheet-go/screenshot"
	"github.com/anxuanzi/specsheet-go/workbook"
)

// Capturer renders a page and returns its snapshot and screenshot.
// *browser.Browser implements it.
type Capturer interface {
	Capture(ctx context.Context, t browser.Target) (*browser.Capture, error)
}

var _ Capturer = (*browser.Browser)(nil)

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithAnnotationConfig overrides the marker style.
func WithAnnotationConfig(c screenshot.AnnotationConfig) Option {
	return func(g *Generator) { g.annotation = c }
}

// Generator runs the per-page pipeline for a project configuration.
type Generator struct {
	cfg        *config.Config
	capturer   Capturer
	labels     workbook.Labels
	annotation screenshot.AnnotationConfig
	logger     *zap.Logger
}

// New creates a generator for cfg that renders pages with capturer.
func New(cfg *config.Config, capturer Capturer, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if capturer == nil {
		return nil, errors.New("capturer is required")
	}
	g := &Generator{
		cfg:        cfg,
		capturer:   capturer,
		labels:     workbook.LabelsFor(cfg.SpecSheet.Locale),
		annotation: screenshot.DefaultAnnotationConfig(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.Named("generator")
	return g, nil
}

// Page is one rendered and inventoried page.
type Page struct {
	Name          string
	URL           string
	Meta          dom.PageMeta
	Inventory     dom.Inventory
	Annotations   []screenshot.Annotation
	Screenshot    screenshot.Result
	AnnotatedPath string
}

// PageResult is the outcome of one page in a run.
type PageResult struct {
	Name     string
	Sheet    string
	Elements int
	Err      error
}

// Result summarizes a run.
type Result struct {
	RunID         string
	OutputPath    string
	ScreenshotDir string
	Pages         []PageResult
	Succeeded     int
	Failed        int
}

// Inventory classifies a snapshot and attaches the page's configured action
// descriptions. Labels control the empty-button marker and the notes prefix.
func Inventory(doc dom.Document, actions []action.Action, labels workbook.Labels) (dom.Inventory, error) {
	classifier := dom.NewClassifier()
	if labels.NoText != "" {
		classifier.EmptyButtonLabel = labels.NoText
	}
	inv, err := classifier.Classify(doc)
	if err != nil {
		return nil, err
	}

	correlator := action.NewCorrelator()
	if labels.ActionPrefix != "" {
		correlator.Prefix = labels.ActionPrefix
	}
	return correlator.Correlate(inv, action.BuildMap(actions)), nil
}

// ScreenshotPath returns where a page's raw screenshot is written.
func (g *Generator) ScreenshotPath(p config.PageConfig) string {
	return filepath.Join(g.cfg.SpecSheet.ScreenshotDir, p.Name+".png")
}

// AnnotatedPath returns where a page's annotated screenshot is written.
func (g *Generator) AnnotatedPath(p config.PageConfig) string {
	return filepath.Join(g.cfg.SpecSheet.ScreenshotDir, p.Name+"_annotated.png")
}

// Inspect renders one page, inventories it and writes the annotated
// screenshot.
func (g *Generator) Inspect(ctx context.Context, p config.PageConfig) (*Page, error) {
	target, err := g.target(p)
	if err != nil {
		return nil, err
	}

	capture, err := g.capturer.Capture(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to capture page: %w", err)
	}

	inv, err := Inventory(capture.Snapshot, p.Actions, g.labels)
	if err != nil {
		return nil, err
	}
	meta := dom.ExtractPageMeta(capture.Snapshot)
	entries := screenshot.Number(inv)

	annotated := g.AnnotatedPath(p)
	shot, err := screenshot.AnnotateFile(capture.ScreenshotPath, annotated, entries, g.annotation)
	if err != nil {
		return nil, err
	}

	return &Page{
		Name:          p.Name,
		URL:           target.URL,
		Meta:          meta,
		Inventory:     inv,
		Annotations:   entries,
		Screenshot:    shot,
		AnnotatedPath: annotated,
	}, nil
}

func (g *Generator) target(p config.PageConfig) (browser.Target, error) {
	u, err := g.cfg.PageURL(p)
	if err != nil {
		return browser.Target{}, err
	}
	ws, err := browser.ParseWaitStrategy(p.WaitStrategy)
	if err != nil {
		return browser.Target{}, err
	}
	vp := g.cfg.ViewportFor(p)
	return browser.Target{
		Name:           p.Name,
		URL:            u,
		Viewport:       browser.Viewport{Width: vp.Width, Height: vp.Height},
		WaitStrategy:   ws,
		Actions:        p.Actions,
		ScreenshotPath: g.ScreenshotPath(p),
	}, nil
}

// Run documents every configured page in order and saves the workbook. A
// failing page is recorded and skipped; the run only returns an error when
// the workbook itself cannot be produced or ctx is cancelled.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:         uuid.NewString(),
		OutputPath:    g.cfg.OutputPath(),
		ScreenshotDir: g.cfg.SpecSheet.ScreenshotDir,
	}
	log := g.logger.With(zap.String("run_id", res.RunID))

	b, err := workbook.New(workbook.Options{
		Labels:   g.labels,
		Title:    g.cfg.ProjectName,
		Language: g.cfg.SpecSheet.Locale,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	defer b.Close()

	log.Info("Generation started",
		zap.String("project", g.cfg.ProjectName),
		zap.Int("pages", len(g.cfg.Pages)))

	for _, p := range g.cfg.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pr := g.document(ctx, b, p, log)
		res.Pages = append(res.Pages, pr)
		if pr.Err != nil {
			res.Failed++
			log.Error("Page failed", zap.String("page", p.Name), zap.Error(pr.Err))
			continue
		}
		res.Succeeded++
	}

	if err := b.SaveAs(res.OutputPath); err != nil {
		return nil, err
	}

	log.Info("Generation finished",
		zap.String("output", res.OutputPath),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed))
	return res, nil
}

func (g *Generator) document(ctx context.Context, b *workbook.Builder, p config.PageConfig, log *zap.Logger) PageResult {
	pr := PageResult{Name: p.Name}
	log = log.With(zap.String("page", p.Name))
	log.Info("Page started")

	page, err := g.Inspect(ctx, p)
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.Elements = len(page.Inventory)

	art, err := b.AddPage(workbook.PageInput{
		ID:          p.Name,
		Title:       p.Title,
		Path:        p.Path,
		Category:    p.Category,
		Description: p.Description,
		Meta:        page.Meta,
		Inventory:   page.Inventory,
		Image: workbook.Image{
			Path:   page.AnnotatedPath,
			Width:  page.Screenshot.Width,
			Height: page.Screenshot.Height,
		},
	})
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.Sheet = art.SheetName

	log.Info("Page finished",
		zap.Int("elements", pr.Elements),
		zap.String("sheet", pr.Sheet))
	return pr
}
