package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxuanzi/specsheet-go/action"
)

const sampleJSON = `{
  "projectName": "Demo Shop!",
  "baseUrl": "https://shop.example.com/app/",
  "outputDir": "./out",
  "pages": [
    {
      "name": "login",
      "path": "login",
      "category": "Auth",
      "waitStrategy": "table",
      "viewport": {"width": 390, "height": 844},
      "actions": [
        {"selector": "#email", "type": "type", "value": "a@example.com", "waitAfter": 50},
        {"type": "scroll", "x": 0, "y": 400, "required": true}
      ]
    },
    {"name": "home", "path": "/"}
  ],
  "specSheet": {"locale": "ja"},
  "browser": {"navigationTimeout": "30s"}
}`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, Viewport{Width: 1440, Height: 900}, cfg.Viewport)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Browser.SettleDelay)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "en", cfg.SpecSheet.Locale)
	assert.Error(t, cfg.Validate(), "defaults alone have no project or pages")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "specsheet.json", sampleJSON)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Demo Shop!", cfg.ProjectName)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, "ja", cfg.SpecSheet.Locale)
	require.Len(t, cfg.Pages, 2)

	login := cfg.Pages[0]
	assert.Equal(t, "table", login.WaitStrategy)
	assert.Equal(t, Viewport{Width: 390, Height: 844}, cfg.ViewportFor(login))
	assert.Equal(t, Viewport{Width: 1440, Height: 900}, cfg.ViewportFor(cfg.Pages[1]))

	require.Len(t, login.Actions, 2)
	assert.Equal(t, action.TypeType, login.Actions[0].Type)
	assert.Equal(t, "a@example.com", login.Actions[0].Value)
	assert.Equal(t, 50*time.Millisecond, login.Actions[0].Pause())
	require.NotNil(t, login.Actions[1].X)
	require.NotNil(t, login.Actions[1].Y)
	assert.Equal(t, 0, *login.Actions[1].X)
	assert.Equal(t, 400, *login.Actions[1].Y)
	assert.True(t, login.Actions[1].Required)

	out := filepath.Join(dir, "out")
	assert.Equal(t, out, cfg.OutputDir)
	assert.Equal(t, filepath.Join(out, "specifications"), cfg.SpecSheet.OutputDir)
	assert.Equal(t, filepath.Join(out, "specifications", "screens"), cfg.SpecSheet.ScreenshotDir)
	assert.Equal(t, filepath.Join(out, "specifications", "demo-shop_screen_spec.xlsx"), cfg.OutputPath())
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mockup-config.json", sampleJSON)
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mockup-config.json", filepath.Base(cfg.Path()))
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := Load("")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "specsheet.json", sampleJSON)
	t.Setenv("SPECSHEET_BROWSER_HEADLESS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "specsheet.yaml", `
projectName: yaml project
baseUrl: http://localhost:3000
pages:
  - name: dashboard
    waitStrategy: graph
specSheet:
  fileName: /tmp/abs.xlsx
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "graph", cfg.Pages[0].WaitStrategy)
	assert.Equal(t, "/tmp/abs.xlsx", cfg.OutputPath())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefaultConfig()
		cfg.ProjectName = "p"
		cfg.BaseURL = "http://localhost"
		cfg.Pages = []PageConfig{{Name: "home"}}
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"project name", func(c *Config) { c.ProjectName = " " }, "projectName"},
		{"base url missing", func(c *Config) { c.BaseURL = "" }, "baseUrl"},
		{"base url relative", func(c *Config) { c.BaseURL = "/app" }, "absolute URL"},
		{"no pages", func(c *Config) { c.Pages = nil }, "pages"},
		{"page name", func(c *Config) { c.Pages = []PageConfig{{Path: "/"}} }, "pages[0].name"},
		{"wait strategy", func(c *Config) { c.Pages[0].WaitStrategy = "forever" }, "waitStrategy"},
		{"viewport", func(c *Config) { c.Viewport.Width = 0 }, "viewport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPageURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://shop.example.com/app/"}

	tests := map[string]string{
		"":            "https://shop.example.com/",
		"login":       "https://shop.example.com/app/login",
		"/admin?x=1":  "https://shop.example.com/admin?x=1",
		"https://o.x": "https://o.x",
	}
	for path, want := range tests {
		got, err := cfg.PageURL(PageConfig{Name: "p", Path: path})
		require.NoError(t, err)
		assert.Equal(t, want, got, "path %q", path)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "demo-shop", Slugify("Demo Shop!"))
	assert.Equal(t, "a_b-c", Slugify("  A_b -- c "))
	assert.Equal(t, "spec", Slugify("日本語"))
	assert.Equal(t, "spec", Slugify(""))
}
