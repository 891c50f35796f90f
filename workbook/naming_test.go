package workbook

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := map[string]string{
		"Screen A!":   "Screen A",
		"Screen A?":   "Screen A",
		"a/b\\c*d[e]": "abcde",
		"ログイン画面":      "ログイン画面",
		"  (draft) ":  "(draft)",
		"?*[]":        fallbackSheetName,
		"":            fallbackSheetName,
		strings.Repeat("x", 40): strings.Repeat("x", MaxNameLength),
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeSheetName(in), "sanitize %q", in)
	}
}

func TestTableNameBase(t *testing.T) {
	assert.Equal(t, "Spec_ScreenA1", TableNameBase("Screen A_1"))
	assert.Equal(t, "Spec_Sheet", TableNameBase("ログイン"))
	assert.Equal(t, "Spec_Login", TableNameBase("Login画面"))
	assert.Equal(t, MaxNameLength, utf8.RuneCountInString(TableNameBase(strings.Repeat("a", 31))))
}

func TestNameRegistryCollision(t *testing.T) {
	r := NewNameRegistry(MaxNameLength)

	first := r.Reserve(SanitizeSheetName("Screen A!"))
	second := r.Reserve(SanitizeSheetName("Screen A?"))
	third := r.Reserve("screen a")

	assert.Equal(t, "Screen A", first)
	assert.Equal(t, "Screen A_1", second)
	assert.Equal(t, "screen a_2", third, "names compare case-insensitively")
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Has("SCREEN A_1"))
}

func TestNameRegistryKeepsLengthBound(t *testing.T) {
	r := NewNameRegistry(MaxNameLength)
	base := strings.Repeat("n", MaxNameLength)

	names := map[string]bool{}
	for i := 0; i < 12; i++ {
		name := r.Reserve(base)
		assert.LessOrEqual(t, utf8.RuneCountInString(name), MaxNameLength)
		assert.False(t, names[name], "duplicate %q", name)
		names[name] = true
	}
	assert.True(t, names[strings.Repeat("n", 29)+"_1"])
	assert.True(t, names[strings.Repeat("n", 28)+"_11"])
}

func TestNameRegistryRelease(t *testing.T) {
	r := NewNameRegistry(MaxNameLength)

	assert.Equal(t, "orders", r.Reserve("orders"))
	r.Release("ORDERS")
	assert.False(t, r.Has("orders"))
	assert.Equal(t, "orders", r.Reserve("orders"), "a released name is handed out again")
}
