// Package config loads the project definition: the site to visit, the pages
// to document and how the browser, workbook and logger behave.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/anxuanzi/specsheet-go/action"
)

// ErrConfigNotFound is returned when no config path is given and none of the
// default candidates exist.
var ErrConfigNotFound = errors.New("config file not found")

// DefaultCandidates are searched, in order, in the working directory.
var DefaultCandidates = []string{
	"specsheet.yaml",
	"specsheet.yml",
	"specsheet.json",
	"mockup-config.json",
	"config.json",
}

// EnvPrefix prefixes environment overrides, e.g. SPECSHEET_BROWSER_HEADLESS.
const EnvPrefix = "SPECSHEET"

// Config is the whole project definition.
type Config struct {
	ProjectName string          `mapstructure:"projectName" yaml:"projectName"`
	BaseURL     string          `mapstructure:"baseUrl" yaml:"baseUrl"`
	OutputDir   string          `mapstructure:"outputDir" yaml:"outputDir"`
	Viewport    Viewport        `mapstructure:"viewport" yaml:"viewport"`
	Pages       []PageConfig    `mapstructure:"pages" yaml:"pages"`
	SpecSheet   SpecSheetConfig `mapstructure:"specSheet" yaml:"specSheet"`
	Browser     BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Logger      LoggerConfig    `mapstructure:"logger" yaml:"logger"`

	// path is the file the config was read from.
	path string
}

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// PageConfig describes one page to document.
type PageConfig struct {
	Name         string          `mapstructure:"name" yaml:"name"`
	Path         string          `mapstructure:"path" yaml:"path"`
	Title        string          `mapstructure:"title" yaml:"title"`
	Category     string          `mapstructure:"category" yaml:"category"`
	Description  string          `mapstructure:"description" yaml:"description"`
	WaitStrategy string          `mapstructure:"waitStrategy" yaml:"waitStrategy"`
	Viewport     *Viewport       `mapstructure:"viewport" yaml:"viewport"`
	Actions      []action.Action `mapstructure:"actions" yaml:"actions"`
}

// SpecSheetConfig controls where the workbook and screenshots are written.
type SpecSheetConfig struct {
	OutputDir     string `mapstructure:"outputDir" yaml:"outputDir"`
	ScreenshotDir string `mapstructure:"screenshotDir" yaml:"screenshotDir"`
	FileName      string `mapstructure:"fileName" yaml:"fileName"`
	Locale        string `mapstructure:"locale" yaml:"locale"`
}

// BrowserConfig holds settings for the headless browser.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	BinPath           string        `mapstructure:"binPath" yaml:"binPath"`
	NoSandbox         bool          `mapstructure:"noSandbox" yaml:"noSandbox"`
	UserAgent         string        `mapstructure:"userAgent" yaml:"userAgent"`
	Locale            string        `mapstructure:"locale" yaml:"locale"`
	Timezone          string        `mapstructure:"timezone" yaml:"timezone"`
	NavigationTimeout time.Duration `mapstructure:"navigationTimeout" yaml:"navigationTimeout"`
	SettleDelay       time.Duration `mapstructure:"settleDelay" yaml:"settleDelay"`
	DisableAnimations bool          `mapstructure:"disableAnimations" yaml:"disableAnimations"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"addSource" yaml:"addSource"`
	ServiceName string      `mapstructure:"serviceName" yaml:"serviceName"`
	LogFile     string      `mapstructure:"logFile" yaml:"logFile"`
	MaxSize     int         `mapstructure:"maxSize" yaml:"maxSize"`
	MaxBackups  int         `mapstructure:"maxBackups" yaml:"maxBackups"`
	MaxAge      int         `mapstructure:"maxAge" yaml:"maxAge"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for console log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// SetDefaults initializes default values for every optional setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("outputDir", ".")
	v.SetDefault("viewport.width", 1440)
	v.SetDefault("viewport.height", 900)

	// -- Spec sheet --
	v.SetDefault("specSheet.locale", "en")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.noSandbox", false)
	v.SetDefault("browser.navigationTimeout", "45s")
	v.SetDefault("browser.settleDelay", "1500ms")
	v.SetDefault("browser.disableAnimations", true)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.serviceName", "specsheet")
	v.SetDefault("logger.maxSize", 50)
	v.SetDefault("logger.maxBackups", 3)
	v.SetDefault("logger.maxAge", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
}

// NewDefaultConfig returns a configuration holding only defaults. It does
// not pass Validate.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// FindConfigFile returns the first default candidate present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range DefaultCandidates {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: create %s in %s or pass --config", ErrConfigNotFound, DefaultCandidates[0], dir)
}

// Load reads, validates and resolves a config file. An empty path searches
// the working directory for the default candidates.
func Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		if path, err = FindConfigFile(wd); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return NewConfigFromViper(v, abs)
}

// NewConfigFromViper decodes, validates and resolves a loaded viper
// instance. Relative directories resolve against the directory of path.
func NewConfigFromViper(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return fmt.Errorf("projectName is a required configuration field")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("baseUrl is a required configuration field")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("baseUrl must be an absolute URL, got %q", c.BaseURL)
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("pages must be a non-empty list")
	}
	for i, p := range c.Pages {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("pages[%d].name is required", i)
		}
		if !validWaitStrategies[p.WaitStrategy] {
			return fmt.Errorf("pages[%d].waitStrategy %q is not one of basic, graph, table, live, video", i, p.WaitStrategy)
		}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport width and height must be positive")
	}
	return nil
}

var validWaitStrategies = map[string]bool{
	"": true, "basic": true, "graph": true, "table": true, "live": true, "video": true,
}

func (c *Config) resolvePaths(baseDir string) {
	c.OutputDir = resolvePath(c.OutputDir, baseDir)

	if c.SpecSheet.OutputDir == "" {
		c.SpecSheet.OutputDir = filepath.Join(c.OutputDir, "specifications")
	} else {
		c.SpecSheet.OutputDir = resolvePath(c.SpecSheet.OutputDir, baseDir)
	}
	if c.SpecSheet.ScreenshotDir == "" {
		c.SpecSheet.ScreenshotDir = filepath.Join(c.SpecSheet.OutputDir, "screens")
	} else {
		c.SpecSheet.ScreenshotDir = resolvePath(c.SpecSheet.ScreenshotDir, baseDir)
	}
	if c.SpecSheet.FileName == "" {
		c.SpecSheet.FileName = Slugify(c.ProjectName) + "_screen_spec.xlsx"
	}
	if c.Logger.LogFile != "" {
		c.Logger.LogFile = resolvePath(c.Logger.LogFile, baseDir)
	}
}

func resolvePath(p, baseDir string) string {
	if p == "" {
		return baseDir
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// OutputPath returns the absolute workbook path.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.SpecSheet.FileName) {
		return c.SpecSheet.FileName
	}
	return filepath.Join(c.SpecSheet.OutputDir, c.SpecSheet.FileName)
}

// Page returns the page with the given name.
func (c *Config) Page(name string) (PageConfig, bool) {
	for _, p := range c.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return PageConfig{}, false
}

// PageURL resolves a page path against the base URL; an empty path is "/".
func (c *Config) PageURL(p PageConfig) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid baseUrl: %w", err)
	}
	ref := p.Path
	if ref == "" {
		ref = "/"
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid path for page %q: %w", p.Name, err)
	}
	return base.ResolveReference(rel).String(), nil
}

// ViewportFor returns the page's viewport, falling back to the project one.
func (c *Config) ViewportFor(p PageConfig) Viewport {
	if p.Viewport != nil && p.Viewport.Width > 0 && p.Viewport.Height > 0 {
		return *p.Viewport
	}
	return c.Viewport
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and collapses everything outside [a-z0-9_-] into
// single dashes. An empty result becomes "spec".
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = slugInvalid.ReplaceAllString(out, "-")
	out = slugDashes.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if out == "" {
		return "spec"
	}
	return out
}
