package browser

import (
	"fmt"
	"time"
)

// WaitStrategy selects how long to let a page settle before capture.
type WaitStrategy string

const (
	WaitBasic WaitStrategy = "basic"
	WaitGraph WaitStrategy = "graph"
	WaitTable WaitStrategy = "table"
	WaitLive  WaitStrategy = "live"
	WaitVideo WaitStrategy = "video"
)

// ParseWaitStrategy maps a configured name to a strategy; empty means basic.
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch ws := WaitStrategy(s); ws {
	case "":
		return WaitBasic, nil
	case WaitBasic, WaitGraph, WaitTable, WaitLive, WaitVideo:
		return ws, nil
	default:
		return "", fmt.Errorf("unknown wait strategy %q", s)
	}
}

// WaitPlan is the concrete waiting a strategy performs: optionally wait for
// Selector up to SelectorTimeout, then pause After. When the selector never
// appears the pause is Fallback instead.
type WaitPlan struct {
	Selector        string
	SelectorTimeout time.Duration
	After           time.Duration
	Fallback        time.Duration
}

// Plan returns the waiting performed by s.
func (s WaitStrategy) Plan() WaitPlan {
	switch s {
	case WaitGraph:
		return WaitPlan{Selector: "svg, canvas", SelectorTimeout: 10 * time.Second, After: 3 * time.Second, Fallback: 5 * time.Second}
	case WaitTable:
		return WaitPlan{Selector: `table, [role="table"]`, SelectorTimeout: 5 * time.Second, After: 2 * time.Second, Fallback: 3 * time.Second}
	case WaitLive:
		return WaitPlan{After: 4 * time.Second}
	case WaitVideo:
		return WaitPlan{After: 3 * time.Second}
	default:
		return WaitPlan{After: 2 * time.Second}
	}
}

// waitFor executes the strategy's plan on a driver.
func waitFor(d driver, s WaitStrategy) {
	plan := s.Plan()
	if plan.Selector == "" {
		d.Sleep(plan.After)
		return
	}
	if err := d.WaitFor(plan.Selector, plan.SelectorTimeout); err != nil {
		d.Sleep(plan.Fallback)
		return
	}
	d.Sleep(plan.After)
}
