package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labelHTML = `<html><body>
<form>
	<input name="a" aria-label="  Search  " placeholder="ignored">
	<label for="b">Username</label><input id="b" name="b" placeholder="ignored">
	<label>Password <input name="c" type="password"></label>
	<span id="d1">Start</span><span id="d2">date</span><input name="d" aria-labelledby="d1 missing d2">
	<input name="e" placeholder="Email">
	<input name="f">
	<label for="g"></label><input id="g" name="g" placeholder="Fallback">
	<label><span></span><input name="h" aria-labelledby="d2"></label>
</form>
</body></html>`

func TestResolveLabel(t *testing.T) {
	snap := parseFixture(t, labelHTML)

	tests := []struct {
		name   string
		label  string
		source LabelSource
	}{
		{"a", "Search", LabelFromAria},
		{"b", "Username", LabelFromFor},
		{"c", "Password", LabelFromWrapping},
		{"d", "Start / date", LabelFromLabelledBy},
		{"e", "Email", LabelFromPlaceholder},
		{"f", "", LabelUnresolved},
		{"g", "Fallback", LabelFromPlaceholder},
		{"h", "date", LabelFromLabelledBy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := snap.MustQueryAll(`input[name="` + tt.name + `"]`)
			require.Len(t, nodes, 1)

			label, source := ResolveLabel(snap, nodes[0])
			assert.Equal(t, tt.label, label)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestResolveLabelClosedSet(t *testing.T) {
	snap := parseFixture(t, labelHTML)
	known := map[LabelSource]bool{
		LabelFromAria: true, LabelFromFor: true, LabelFromWrapping: true,
		LabelFromLabelledBy: true, LabelFromPlaceholder: true, LabelUnresolved: true,
	}

	for _, n := range snap.MustQueryAll("input, select, textarea") {
		label, source := ResolveLabel(snap, n)
		assert.True(t, known[source], "unexpected source %q", source)
		if source == LabelUnresolved {
			assert.Empty(t, label)
		} else {
			assert.NotEmpty(t, label)
		}
	}
}

func TestResolveLabelPlaceholderOnly(t *testing.T) {
	snap := parseFixture(t, `<html><body><div><input type="email" placeholder="Email"></div></body></html>`)
	nodes := snap.MustQueryAll("input")
	require.Len(t, nodes, 1)

	label, source := ResolveLabel(snap, nodes[0])
	assert.Equal(t, "Email", label)
	assert.Equal(t, LabelFromPlaceholder, source)
}
