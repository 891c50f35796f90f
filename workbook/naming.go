package workbook

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest sheet name a workbook accepts. Table names
// are held to the same bound.
const MaxNameLength = 31

const (
	fallbackSheetName = "Screen"
	tableNamePrefix   = "Spec_"
	fallbackTableName = "Sheet"
)

// SanitizeSheetName keeps letters, digits, spaces and "-_.()", trims the
// result to MaxNameLength and falls back to a generic name when nothing is
// left.
func SanitizeSheetName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || strings.ContainsRune("-_.()", r) {
			sb.WriteRune(r)
		}
	}
	s := truncateRunes(strings.TrimSpace(sb.String()), MaxNameLength)
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackSheetName
	}
	return s
}

// TableNameBase derives a table identifier from a sheet name: the prefix
// followed by its ASCII letters and digits.
func TableNameBase(sheetName string) string {
	var sb strings.Builder
	for _, r := range sheetName {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	body := sb.String()
	if body == "" {
		body = fallbackTableName
	}
	return truncateRunes(tableNamePrefix+body, MaxNameLength)
}

// NameRegistry hands out names unique within one workbook. Comparison is
// case-insensitive, matching how spreadsheets compare sheet and table names.
type NameRegistry struct {
	maxLen int
	used   map[string]struct{}
}

// NewNameRegistry returns an empty registry for names up to maxLen runes.
func NewNameRegistry(maxLen int) *NameRegistry {
	return &NameRegistry{maxLen: maxLen, used: make(map[string]struct{})}
}

// Reserve returns base, or base with a numeric suffix when taken, and marks
// the result as used. The suffixed form is re-truncated to stay within the
// length bound.
func (r *NameRegistry) Reserve(base string) string {
	candidate := truncateRunes(base, r.maxLen)
	for i := 1; r.Has(candidate); i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncateRunes(base, r.maxLen-len(suffix)) + suffix
	}
	r.used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

// Release frees a reserved name.
func (r *NameRegistry) Release(name string) {
	delete(r.used, strings.ToLower(name))
}

// Has reports whether name is already reserved.
func (r *NameRegistry) Has(name string) bool {
	_, ok := r.used[strings.ToLower(name)]
	return ok
}

// Len returns the number of reserved names.
func (r *NameRegistry) Len() int {
	return len(r.used)
}

// Names groups the sheet and table registries of one workbook build.
type Names struct {
	Sheets *NameRegistry
	Tables *NameRegistry
}

// NewNames returns fresh registries.
func NewNames() *Names {
	return &Names{
		Sheets: NewNameRegistry(MaxNameLength),
		Tables: NewNameRegistry(MaxNameLength),
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
