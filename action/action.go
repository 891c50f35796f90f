// Package action models the scripted interactions configured for a page and
// correlates them with the page's element inventory.
package action

import (
	"fmt"
	"strings"
	"time"
)

// Type names a scripted interaction.
type Type string

const (
	TypeClick           Type = "click"
	TypeType            Type = "type"
	TypeScroll          Type = "scroll"
	TypeHover           Type = "hover"
	TypeSelect          Type = "select"
	TypeWait            Type = "wait"
	TypeWaitForSelector Type = "waitForSelector"
	TypeEvaluate        Type = "evaluate"
)

// Defaults applied when an action leaves a timing unset.
const (
	DefaultWaitAfter       = 200 * time.Millisecond
	DefaultWaitDuration    = time.Second
	DefaultSelectorTimeout = 5 * time.Second
)

// Known reports whether t is an interaction the runner can execute.
func (t Type) Known() bool {
	switch t {
	case TypeClick, TypeType, TypeScroll, TypeHover, TypeSelect,
		TypeWait, TypeWaitForSelector, TypeEvaluate:
		return true
	}
	return false
}

// Action is one configured interaction. Timings are in milliseconds to stay
// compatible with existing JSON page definitions.
type Action struct {
	Selector    string `mapstructure:"selector" json:"selector,omitempty"`
	Type        Type   `mapstructure:"type" json:"type"`
	Value       string `mapstructure:"value" json:"value,omitempty"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	// X and Y are the scroll target; both must be set for a scroll.
	X        *int   `mapstructure:"x" json:"x,omitempty"`
	Y        *int   `mapstructure:"y" json:"y,omitempty"`
	Duration int    `mapstructure:"duration" json:"duration,omitempty"`
	Timeout  int    `mapstructure:"timeout" json:"timeout,omitempty"`
	Code     string `mapstructure:"code" json:"code,omitempty"`
	// WaitAfter is the pause after the action; zero means DefaultWaitAfter.
	WaitAfter int  `mapstructure:"waitAfter" json:"waitAfter,omitempty"`
	Required  bool `mapstructure:"required" json:"required,omitempty"`
}

// Summary is the human-readable description used in notes. Without an
// explicit description it is the type followed by the value in parentheses.
func (a Action) Summary() string {
	if d := strings.TrimSpace(a.Description); d != "" {
		return d
	}
	if a.Value != "" {
		return strings.TrimSpace(fmt.Sprintf("%s (%s)", a.Type, a.Value))
	}
	return strings.TrimSpace(string(a.Type))
}

// WaitDuration is the pause of a wait action.
func (a Action) WaitDuration() time.Duration {
	return millisOr(a.Duration, DefaultWaitDuration)
}

// SelectorTimeout bounds a waitForSelector action.
func (a Action) SelectorTimeout() time.Duration {
	return millisOr(a.Timeout, DefaultSelectorTimeout)
}

// Pause is the settle time after the action runs.
func (a Action) Pause() time.Duration {
	return millisOr(a.WaitAfter, DefaultWaitAfter)
}

func millisOr(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
