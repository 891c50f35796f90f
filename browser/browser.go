// Package browser drives Chrome through rod to render configured pages and
// hand back a DOM snapshot and a full-page screenshot.
package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/anxuanzi/specsheet-go/action"
	"github.com/anxuanzi/specsheet-go/config"
	"github.com/anxuanzi/specsheet-go/dom"
)

// Timing defaults.
const (
	DefaultNavigationTimeout = 45 * time.Second
	DefaultSettleDelay       = 1500 * time.Millisecond
	DefaultActionTimeout     = 5 * time.Second

	networkIdleTimeout = 10 * time.Second
	networkIdleWindow  = 500 * time.Millisecond
	postActionDelay    = time.Second
)

// Config holds browser launch and capture settings.
type Config struct {
	Headless  bool
	BinPath   string
	NoSandbox bool

	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	// ActionTimeout bounds the element lookup of each scripted action.
	ActionTimeout time.Duration

	Emulation EmulationConfig
	Logger    *zap.Logger
}

// FromConfig converts the file configuration.
func FromConfig(c config.BrowserConfig, logger *zap.Logger) Config {
	return Config{
		Headless:          c.Headless,
		BinPath:           c.BinPath,
		NoSandbox:         c.NoSandbox,
		NavigationTimeout: c.NavigationTimeout,
		SettleDelay:       c.SettleDelay,
		Emulation: EmulationConfig{
			UserAgent:         c.UserAgent,
			Locale:            c.Locale,
			Timezone:          c.Timezone,
			DisableAnimations: c.DisableAnimations,
		},
		Logger: logger,
	}
}

// Viewport is a window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Target is one page to render.
type Target struct {
	Name         string
	URL          string
	Viewport     Viewport
	WaitStrategy WaitStrategy
	Actions      []action.Action
	// ScreenshotPath is where the full-page PNG is written.
	ScreenshotPath string
}

// Capture is what a rendered page yields.
type Capture struct {
	URL            string
	Snapshot       *dom.Snapshot
	ScreenshotPath string
	Width          int
	Height         int
}

// Browser owns one Chrome process. Every Capture runs in its own incognito
// context so pages never share cookies, storage or scroll state.
type Browser struct {
	cfg      Config
	logger   *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// New creates a browser; call Start before capturing.
func New(cfg Config) *Browser {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = DefaultActionTimeout
	}
	return &Browser{cfg: cfg, logger: cfg.Logger.Named("browser")}
}

// Start launches and connects to Chrome.
func (b *Browser) Start(ctx context.Context) error {
	if b.browser != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l := launcher.New().Headless(b.cfg.Headless).NoSandbox(b.cfg.NoSandbox)
	if b.cfg.BinPath != "" {
		l = l.Bin(b.cfg.BinPath)
	}
	for _, f := range launchFlags {
		name, value, ok := strings.Cut(f, "=")
		if ok {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	br := rod.New().ControlURL(u)
	if err := br.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.launcher = l
	b.browser = br
	b.logger.Info("Browser started", zap.Bool("headless", b.cfg.Headless))
	return nil
}

// Close shuts down Chrome and removes its profile directory.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Cleanup()
	b.browser = nil
	b.launcher = nil
	return err
}

// Capture renders the target in a fresh context, runs its actions, then takes
// the DOM snapshot and the full-page screenshot.
func (b *Browser) Capture(ctx context.Context, t Target) (*Capture, error) {
	if b.browser == nil {
		return nil, errors.New("browser not started")
	}
	log := b.logger.With(zap.String("page", t.Name), zap.String("url", t.URL))

	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	defer incognito.Close()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             t.Viewport.Width,
		Height:            t.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	if err := applyEmulation(page, b.cfg.Emulation); err != nil {
		return nil, err
	}

	d := &rodDriver{ctx: ctx, page: page, timeout: b.cfg.ActionTimeout}

	if err := navigate(page, t.URL, b.cfg.NavigationTimeout); err != nil {
		return nil, err
	}
	d.Sleep(b.cfg.SettleDelay)
	waitRequestIdle(page)

	waitFor(d, t.WaitStrategy)
	if err := runActions(d, t.Actions, log); err != nil {
		return nil, err
	}
	d.Sleep(postActionDelay)

	snap, err := dom.Capture(ctx, page)
	if err != nil {
		return nil, err
	}

	png, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot size: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.ScreenshotPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if err := os.WriteFile(t.ScreenshotPath, png, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write screenshot: %w", err)
	}

	log.Debug("Page captured", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	return &Capture{
		URL:            snap.URL(),
		Snapshot:       snap,
		ScreenshotPath: t.ScreenshotPath,
		Width:          cfg.Width,
		Height:         cfg.Height,
	}, nil
}

// navigate loads url and waits for the load event within timeout.
func navigate(page *rod.Page, url string, timeout time.Duration) error {
	p := page.Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	return nil
}

// waitRequestIdle waits, best-effort, for network activity to settle.
func waitRequestIdle(page *rod.Page) {
	p := page.Timeout(networkIdleTimeout)
	defer p.CancelTimeout()
	p.WaitRequestIdle(networkIdleWindow, nil, nil, nil)()
}
