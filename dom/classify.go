package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	buttonQuery = `button, [role="button"], input[type="button"], input[type="submit"], input[type="reset"]`
	linkQuery   = `a[href]`
	inputQuery  = `input, textarea, select`
)

// DefaultEmptyButtonLabel marks buttons with no text, aria-label or value.
const DefaultEmptyButtonLabel = "(no text)"

// Classifier buckets a snapshot's interactive elements into an Inventory.
type Classifier struct {
	// EmptyButtonLabel replaces the label of buttons with nothing readable.
	EmptyButtonLabel string
}

// NewClassifier returns a classifier with default markers.
func NewClassifier() *Classifier {
	return &Classifier{EmptyButtonLabel: DefaultEmptyButtonLabel}
}

// Classify walks the snapshot and returns buttons, then links not already
// counted as buttons, then form controls. Hidden elements are kept; their
// boxes are simply empty.
func (c *Classifier) Classify(doc Document) (Inventory, error) {
	buttons, err := doc.QueryAll(buttonQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query buttons: %w", err)
	}
	anchors, err := doc.QueryAll(linkQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	controls, err := doc.QueryAll(inputQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query inputs: %w", err)
	}

	isButton := make(map[*html.Node]bool, len(buttons))
	inv := make(Inventory, 0, len(buttons)+len(anchors)+len(controls))

	for _, n := range buttons {
		isButton[n] = true
		inv = append(inv, c.buttonRecord(doc, n))
	}
	for _, n := range anchors {
		if isButton[n] {
			continue
		}
		inv = append(inv, linkRecord(doc, n))
	}
	for _, n := range controls {
		inv = append(inv, inputRecord(doc, n))
	}
	return inv, nil
}

func (c *Classifier) buttonRecord(doc Document, n *html.Node) ElementRecord {
	ariaLabel := strings.TrimSpace(attr(n, "aria-label"))
	label := firstNonEmpty(doc.Text(n), ariaLabel)
	if label == "" && n.DataAtom == atom.Input {
		label = strings.TrimSpace(doc.Value(n))
	}
	if label == "" {
		label = c.EmptyButtonLabel
	}

	return ElementRecord{
		Kind:     KindButton,
		Selector: SynthesizeSelector(n),
		Tag:      strings.ToLower(n.Data),
		Role:     attr(n, "role"),
		Type:     attr(n, "type"),
		Label:    label,
		Box:      doc.Box(n),
		Button: &ButtonDetail{
			Disabled:     hasAttr(n, "disabled") || attr(n, "aria-disabled") == "true",
			Href:         attr(n, "href"),
			FormAction:   attr(n, "formaction"),
			AriaLabel:    ariaLabel,
			DatasetNotes: dataAttributes(n, nil),
		},
	}
}

func linkRecord(doc Document, n *html.Node) ElementRecord {
	ariaLabel := strings.TrimSpace(attr(n, "aria-label"))
	return ElementRecord{
		Kind:     KindLink,
		Selector: SynthesizeSelector(n),
		Tag:      strings.ToLower(n.Data),
		Role:     attr(n, "role"),
		Label:    firstNonEmpty(doc.Text(n), ariaLabel, strings.TrimSpace(attr(n, "title"))),
		Box:      doc.Box(n),
		Link: &LinkDetail{
			Href:         attr(n, "href"),
			Target:       attr(n, "target"),
			AriaLabel:    ariaLabel,
			DatasetNotes: dataAttributes(n, nil),
		},
	}
}

func inputRecord(doc Document, n *html.Node) ElementRecord {
	label, source := ResolveLabel(doc, n)
	detail := &InputDetail{
		Name:            attr(n, "name"),
		ID:              attr(n, "id"),
		LabelSource:     source,
		Placeholder:     attr(n, "placeholder"),
		Value:           doc.Value(n),
		Required:        hasAttr(n, "required") || attr(n, "aria-required") == "true",
		Pattern:         attr(n, "pattern"),
		MinLength:       attr(n, "minlength"),
		MaxLength:       attr(n, "maxlength"),
		Min:             attr(n, "min"),
		Max:             attr(n, "max"),
		Step:            attr(n, "step"),
		Autocomplete:    attr(n, "autocomplete"),
		AriaDescribedBy: attr(n, "aria-describedby"),
		AriaDescription: attr(n, "aria-description"),
		DatasetRules:    dataAttributes(n, isValidationKey),
	}
	if n.DataAtom == atom.Select {
		walkElements(n, func(o *html.Node) {
			if o.DataAtom != atom.Option {
				return
			}
			detail.Options = append(detail.Options, Option{
				Text:     doc.Text(o),
				Value:    optionValue(doc, o),
				Selected: doc.Selected(o),
			})
		})
	}

	return ElementRecord{
		Kind:     KindInput,
		Selector: SynthesizeSelector(n),
		Tag:      strings.ToLower(n.Data),
		Role:     attr(n, "role"),
		Type:     attr(n, "type"),
		Label:    label,
		Box:      doc.Box(n),
		Input:    detail,
	}
}

func isValidationKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "validation") || strings.Contains(key, "rule")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
