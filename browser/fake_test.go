package browser

import (
	"errors"
	"fmt"
	"time"
)

// fakeDriver records calls and fails for selectors listed in failing.
type fakeDriver struct {
	calls   []string
	slept   []time.Duration
	failing map[string]bool
}

func (f *fakeDriver) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) fail(selector string) error {
	if f.failing[selector] {
		return errors.New("no such element")
	}
	return nil
}

func (f *fakeDriver) Click(sel string) error {
	f.record("click %s", sel)
	return f.fail(sel)
}

func (f *fakeDriver) Fill(sel, value string) error {
	f.record("fill %s=%s", sel, value)
	return f.fail(sel)
}

func (f *fakeDriver) ScrollTo(x, y int) error {
	f.record("scroll %d,%d", x, y)
	return nil
}

func (f *fakeDriver) Hover(sel string) error {
	f.record("hover %s", sel)
	return f.fail(sel)
}

func (f *fakeDriver) Select(sel, value string) error {
	f.record("select %s=%s", sel, value)
	return f.fail(sel)
}

func (f *fakeDriver) WaitFor(sel string, timeout time.Duration) error {
	f.record("waitFor %s %s", sel, timeout)
	return f.fail(sel)
}

func (f *fakeDriver) Evaluate(code string) error {
	f.record("eval %s", code)
	return f.fail(code)
}

func (f *fakeDriver) Sleep(d time.Duration) {
	f.slept = append(f.slept, d)
}
