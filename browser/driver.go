package browser

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// rodDriver runs scripted actions against a rod page.
type rodDriver struct {
	ctx     context.Context
	page    *rod.Page
	timeout time.Duration
}

var _ driver = (*rodDriver)(nil)

func (r *rodDriver) element(selector string) (*rod.Element, error) {
	p := r.page.Timeout(r.timeout)
	el, err := p.Element(selector)
	if err != nil {
		p.CancelTimeout()
		return nil, fmt.Errorf("element %q not found: %w", selector, err)
	}
	return el.CancelTimeout(), nil
}

func (r *rodDriver) Click(selector string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodDriver) Fill(selector, value string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func (r *rodDriver) ScrollTo(x, y int) error {
	_, err := r.page.Eval(`(x, y) => window.scrollTo(x, y)`, x, y)
	return err
}

func (r *rodDriver) Hover(selector string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	return el.Hover()
}

// Select picks an option by value, falling back to its visible text.
func (r *rodDriver) Select(selector, value string) error {
	el, err := r.element(selector)
	if err != nil {
		return err
	}
	byValue := "[value=" + strconv.Quote(value) + "]"
	if err := el.Select([]string{byValue}, true, rod.SelectorTypeCSSSector); err == nil {
		return nil
	}
	return el.Select([]string{value}, true, rod.SelectorTypeText)
}

func (r *rodDriver) WaitFor(selector string, timeout time.Duration) error {
	p := r.page.Timeout(timeout)
	defer p.CancelTimeout()
	_, err := p.Element(selector)
	return err
}

func (r *rodDriver) Evaluate(code string) error {
	res, err := proto.RuntimeEvaluate{Expression: code, AwaitPromise: true}.Call(r.page)
	if err != nil {
		return err
	}
	if res.ExceptionDetails != nil {
		return fmt.Errorf("script error: %s", res.ExceptionDetails.Text)
	}
	return nil
}

func (r *rodDriver) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-r.ctx.Done():
	}
}
