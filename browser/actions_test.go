package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/anxuanzi/specsheet-go/action"
)

func intPtr(v int) *int { return &v }

func TestRunActions(t *testing.T) {
	d := &fakeDriver{}
	actions := []action.Action{
		{Type: action.TypeClick, Selector: "#open"},
		{Type: action.TypeType, Selector: "#q", Value: "shoes"},
		{Type: action.TypeScroll, X: intPtr(0), Y: intPtr(400)},
		{Type: action.TypeHover, Selector: ".menu"},
		{Type: action.TypeSelect, Selector: "#size", Value: "m"},
		{Type: action.TypeWaitForSelector, Selector: ".results", Timeout: 1500},
		{Type: action.TypeEvaluate, Code: "window.ready = true"},
		{Type: action.TypeWait, Duration: 300, WaitAfter: 50},
	}

	require.NoError(t, runActions(d, actions, zaptest.NewLogger(t)))

	assert.Equal(t, []string{
		"click #open",
		"fill #q=shoes",
		"scroll 0,400",
		"hover .menu",
		"select #size=m",
		"waitFor .results 1.5s",
		"eval window.ready = true",
	}, d.calls)

	// Seven default pauses, then the wait itself and its own pause.
	require.Len(t, d.slept, 9)
	assert.Equal(t, action.DefaultWaitAfter, d.slept[0])
	assert.Equal(t, 300*time.Millisecond, d.slept[7])
	assert.Equal(t, 50*time.Millisecond, d.slept[8])
}

func TestRunActionsOptionalFailureContinues(t *testing.T) {
	d := &fakeDriver{failing: map[string]bool{"#gone": true}}
	actions := []action.Action{
		{Type: action.TypeClick, Selector: "#gone"},
		{Type: action.TypeClick, Selector: "#next"},
	}

	require.NoError(t, runActions(d, actions, zaptest.NewLogger(t)))
	assert.Equal(t, []string{"click #gone", "click #next"}, d.calls)
}

func TestRunActionsRequiredFailureStops(t *testing.T) {
	d := &fakeDriver{failing: map[string]bool{"#login": true}}
	actions := []action.Action{
		{Type: action.TypeClick, Selector: "#login", Required: true},
		{Type: action.TypeClick, Selector: "#next"},
	}

	err := runActions(d, actions, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required action 1 (click)")
	assert.Equal(t, []string{"click #login"}, d.calls)
}

func TestRunActionsSkipsIncompleteActions(t *testing.T) {
	d := &fakeDriver{}
	actions := []action.Action{
		{Type: action.TypeClick},
		{Type: action.TypeScroll, X: intPtr(10)},
		{Type: action.TypeEvaluate},
		{Type: "teleport", Selector: "#x"},
	}

	require.NoError(t, runActions(d, actions, zaptest.NewLogger(t)))
	assert.Empty(t, d.calls)
	assert.Len(t, d.slept, 4)
}
