// Package dom builds the interactive element inventory of a rendered page.
package dom

import (
	"math"
	"strings"
)

// Kind classifies an inventory entry.
type Kind string

const (
	KindButton Kind = "button"
	KindLink   Kind = "link"
	KindInput  Kind = "input"
)

// BoundingBox is an element's integer viewport rectangle at capture time.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsEmpty reports whether the box has no area (hidden or unrendered elements).
func (b BoundingBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Center returns the rounded midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{
		X: roundHalfUp(float64(b.X) + float64(b.Width)/2),
		Y: roundHalfUp(float64(b.Y) + float64(b.Height)/2),
	}
}

// Point is an integer pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ElementRecord describes one interactive element.
type ElementRecord struct {
	Kind     Kind        `json:"kind"`
	Selector string      `json:"selector"`
	Tag      string      `json:"tag,omitempty"`
	Role     string      `json:"role,omitempty"`
	Type     string      `json:"type,omitempty"`
	Label    string      `json:"label"`
	Box      BoundingBox `json:"boundingBox"`

	// Exactly one of these is set, matching Kind.
	Button *ButtonDetail `json:"button,omitempty"`
	Link   *LinkDetail   `json:"link,omitempty"`
	Input  *InputDetail  `json:"input,omitempty"`

	// Notes is written by the action correlator.
	Notes string `json:"notes,omitempty"`
}

// Center returns the overlay anchor derived from the bounding box.
func (r ElementRecord) Center() Point {
	return r.Box.Center()
}

// ButtonDetail holds button specific attributes.
type ButtonDetail struct {
	Disabled     bool     `json:"disabled,omitempty"`
	Href         string   `json:"href,omitempty"`
	FormAction   string   `json:"formAction,omitempty"`
	AriaLabel    string   `json:"ariaLabel,omitempty"`
	DatasetNotes []string `json:"datasetNotes,omitempty"`
}

// LinkDetail holds anchor specific attributes.
type LinkDetail struct {
	Href         string   `json:"href"`
	Target       string   `json:"target,omitempty"`
	AriaLabel    string   `json:"ariaLabel,omitempty"`
	DatasetNotes []string `json:"datasetNotes,omitempty"`
}

// InputDetail holds form control attributes relevant to validation.
type InputDetail struct {
	Name            string      `json:"name,omitempty"`
	ID              string      `json:"id,omitempty"`
	LabelSource     LabelSource `json:"labelSource"`
	Placeholder     string      `json:"placeholder,omitempty"`
	Value           string      `json:"value,omitempty"`
	Required        bool        `json:"required,omitempty"`
	Pattern         string      `json:"pattern,omitempty"`
	MinLength       string      `json:"minLength,omitempty"`
	MaxLength       string      `json:"maxLength,omitempty"`
	Min             string      `json:"min,omitempty"`
	Max             string      `json:"max,omitempty"`
	Step            string      `json:"step,omitempty"`
	Autocomplete    string      `json:"autocomplete,omitempty"`
	AriaDescribedBy string      `json:"ariaDescribedBy,omitempty"`
	AriaDescription string      `json:"ariaDescription,omitempty"`
	Options         []Option    `json:"options,omitempty"`
	DatasetRules    []string    `json:"datasetRules,omitempty"`
}

// Option is one entry of a select control.
type Option struct {
	Text     string `json:"text"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// Inventory is the ordered element list of one page: buttons, then links,
// then inputs, each in document order.
type Inventory []ElementRecord

// Len returns the number of records.
func (inv Inventory) Len() int { return len(inv) }

// CountByKind tallies records per kind.
func (inv Inventory) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, 3)
	for _, r := range inv {
		counts[r.Kind]++
	}
	return counts
}

// roundHalfUp rounds like the browser's Math.round.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// normalizeSpace collapses whitespace runs and trims the result.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
