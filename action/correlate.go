package action

import (
	"strings"

	"github.com/anxuanzi/specsheet-go/dom"
)

// DefaultPrefix introduces the correlated descriptions in a record's notes.
const DefaultPrefix = "Configured actions: "

const descriptionSeparator = " / "

// Map associates configured selectors with the summaries of the actions that
// target them, preserving configuration order.
type Map struct {
	order        []string
	descriptions map[string][]string
}

// BuildMap groups actions by selector. Actions without a selector are skipped.
func BuildMap(actions []Action) *Map {
	m := &Map{descriptions: make(map[string][]string)}
	for _, a := range actions {
		if a.Selector == "" {
			continue
		}
		if _, ok := m.descriptions[a.Selector]; !ok {
			m.order = append(m.order, a.Selector)
		}
		m.descriptions[a.Selector] = append(m.descriptions[a.Selector], a.Summary())
	}
	return m
}

// Len returns the number of distinct configured selectors.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Match returns the de-duplicated descriptions of every configured selector
// that equals selector or contains it, or is contained by it.
func (m *Map) Match(selector string) []string {
	if m == nil || selector == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, configured := range m.order {
		if configured != selector &&
			!strings.Contains(selector, configured) &&
			!strings.Contains(configured, selector) {
			continue
		}
		for _, d := range m.descriptions[configured] {
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// Correlator attaches configured action descriptions to inventory records.
type Correlator struct {
	Prefix string
}

// NewCorrelator returns a correlator using DefaultPrefix.
func NewCorrelator() *Correlator {
	return &Correlator{Prefix: DefaultPrefix}
}

// Correlate returns a copy of inv where every record matched by m carries an
// extra notes line listing the matching descriptions. Records without a
// match are copied unchanged.
func (c *Correlator) Correlate(inv dom.Inventory, m *Map) dom.Inventory {
	out := make(dom.Inventory, len(inv))
	copy(out, inv)
	if m.Len() == 0 {
		return out
	}
	for i := range out {
		matches := m.Match(out[i].Selector)
		if len(matches) == 0 {
			continue
		}
		line := c.Prefix + strings.Join(matches, descriptionSeparator)
		if out[i].Notes == "" {
			out[i].Notes = line
		} else {
			out[i].Notes += "\n" + line
		}
	}
	return out
}
