package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LabelSource names the fallback step that produced a form control label.
type LabelSource string

const (
	LabelFromAria        LabelSource = "aria-label"
	LabelFromFor         LabelSource = "label-for"
	LabelFromWrapping    LabelSource = "wrapping-label"
	LabelFromLabelledBy  LabelSource = "aria-labelledby"
	LabelFromPlaceholder LabelSource = "placeholder"
	LabelUnresolved      LabelSource = "unresolved"
)

// labelledBySeparator joins the texts of multiple aria-labelledby targets.
const labelledBySeparator = " / "

// ResolveLabel returns the best human-readable label for a form control.
// The first non-empty candidate wins: aria-label, <label for=id>, the
// nearest wrapping <label>, aria-labelledby targets, placeholder. When all
// are empty the label is "" with source LabelUnresolved.
func ResolveLabel(doc Document, n *html.Node) (string, LabelSource) {
	if v := strings.TrimSpace(attr(n, "aria-label")); v != "" {
		return v, LabelFromAria
	}

	if id := attr(n, "id"); id != "" {
		if v := labelForText(doc, id); v != "" {
			return v, LabelFromFor
		}
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Label {
			if v := doc.Text(p); v != "" {
				return v, LabelFromWrapping
			}
			break
		}
	}

	if ids := strings.Fields(attr(n, "aria-labelledby")); len(ids) > 0 {
		var texts []string
		for _, id := range ids {
			if el := doc.ElementByID(id); el != nil {
				if t := doc.Text(el); t != "" {
					texts = append(texts, t)
				}
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, labelledBySeparator), LabelFromLabelledBy
		}
	}

	if v := strings.TrimSpace(attr(n, "placeholder")); v != "" {
		return v, LabelFromPlaceholder
	}
	return "", LabelUnresolved
}

// labelForText returns the text of the first <label for=id>.
func labelForText(doc Document, id string) string {
	labels, err := doc.QueryAll("label[for]")
	if err != nil {
		return ""
	}
	for _, l := range labels {
		if attr(l, "for") == id {
			return doc.Text(l)
		}
	}
	return ""
}
