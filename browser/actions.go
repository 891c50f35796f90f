package browser

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anxuanzi/specsheet-go/action"
)

// driver is the page surface scripted actions need.
type driver interface {
	Click(selector string) error
	Fill(selector, value string) error
	ScrollTo(x, y int) error
	Hover(selector string) error
	Select(selector, value string) error
	WaitFor(selector string, timeout time.Duration) error
	Evaluate(code string) error
	Sleep(d time.Duration)
}

// runActions executes actions in order, pausing after each. A failing action
// is logged and skipped unless it is required, in which case the run stops.
func runActions(d driver, actions []action.Action, logger *zap.Logger) error {
	for i, a := range actions {
		if err := runAction(d, a); err != nil {
			if a.Required {
				return fmt.Errorf("required action %d (%s) failed: %w", i+1, a.Type, err)
			}
			logger.Debug("Action failed, continuing",
				zap.Int("index", i+1),
				zap.String("type", string(a.Type)),
				zap.String("selector", a.Selector),
				zap.Error(err))
		}
		d.Sleep(a.Pause())
	}
	return nil
}

func runAction(d driver, a action.Action) error {
	switch a.Type {
	case action.TypeClick:
		if a.Selector != "" {
			return d.Click(a.Selector)
		}
	case action.TypeType:
		if a.Selector != "" {
			return d.Fill(a.Selector, a.Value)
		}
	case action.TypeScroll:
		if a.X != nil && a.Y != nil {
			return d.ScrollTo(*a.X, *a.Y)
		}
	case action.TypeHover:
		if a.Selector != "" {
			return d.Hover(a.Selector)
		}
	case action.TypeSelect:
		if a.Selector != "" {
			return d.Select(a.Selector, a.Value)
		}
	case action.TypeWait:
		d.Sleep(a.WaitDuration())
	case action.TypeWaitForSelector:
		if a.Selector != "" {
			return d.WaitFor(a.Selector, a.SelectorTimeout())
		}
	case action.TypeEvaluate:
		if a.Code != "" {
			return d.Evaluate(a.Code)
		}
	}
	return nil
}
