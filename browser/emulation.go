package browser

import (
	"fmt"
	"slices"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// EmulationConfig pins the page environment so captures are reproducible.
type EmulationConfig struct {
	// UserAgent overrides the browser user agent.
	UserAgent string

	// Locale sets navigator.language and Accept-Language (e.g., "ja-JP").
	Locale string

	// Timezone sets the browser timezone (e.g., "Asia/Tokyo").
	Timezone string

	// DisableAnimations freezes CSS animations, transitions and caret blinking.
	DisableAnimations bool
}

// freezeAnimationsJS is injected before any page script runs.
const freezeAnimationsJS = `
(() => {
    const css = '*, *::before, *::after {' +
        ' animation-duration: 0s !important; animation-delay: 0s !important;' +
        ' transition-duration: 0s !important; transition-delay: 0s !important;' +
        ' caret-color: transparent !important; scroll-behavior: auto !important; }';
    const install = () => {
        const style = document.createElement('style');
        style.setAttribute('data-specsheet', 'freeze');
        style.textContent = css;
        (document.head || document.documentElement).appendChild(style);
    };
    if (document.documentElement) {
        install();
    } else {
        document.addEventListener('DOMContentLoaded', install, { once: true });
    }
})();
`

// applyEmulation configures a fresh page before navigation.
func applyEmulation(page *rod.Page, cfg EmulationConfig) error {
	if cfg.UserAgent != "" || cfg.Locale != "" {
		ua := cfg.UserAgent
		if ua == "" {
			v, err := page.Browser().Version()
			if err != nil {
				return fmt.Errorf("failed to read browser version: %w", err)
			}
			ua = v.UserAgent
		}
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: cfg.Locale,
		}); err != nil {
			return fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	if cfg.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: cfg.Locale}).Call(page); err != nil {
			return fmt.Errorf("failed to set locale: %w", err)
		}
	}

	if cfg.Timezone != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: cfg.Timezone}).Call(page); err != nil {
			return fmt.Errorf("failed to set timezone: %w", err)
		}
	}

	if cfg.DisableAnimations {
		if _, err := page.EvalOnNewDocument(freezeAnimationsJS); err != nil {
			return fmt.Errorf("failed to inject animation freeze: %w", err)
		}
	}
	return nil
}

// launchFlags are passed to every browser process.
var launchFlags = []string{
	"disable-dev-shm-usage",                  // Prevent shared memory issues in containers
	"disable-renderer-backgrounding",         // Keep renderers active
	"disable-backgrounding-occluded-windows", // Keep background windows active
	"disable-background-timer-throttling",    // Keep timers active
	"hide-scrollbars",                        // Keep screenshots free of scrollbars
	"force-device-scale-factor=1",            // One CSS pixel per screenshot pixel
}

// LaunchFlags returns the Chrome flags used for captures.
func LaunchFlags() []string {
	return slices.Clone(launchFlags)
}
