package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// maxSelectorDepth caps the number of path fragments (the element plus its ancestors).
	maxSelectorDepth = 5
	// maxClassTokens is how many class names a fragment carries.
	maxClassTokens = 2
	selectorSeparator = " > "
)

// SynthesizeSelector derives a short CSS path for n. An id short-circuits to
// "#id"; otherwise fragments of tag, up to two classes and a :nth-of-type
// tie-break are collected upward, stopping below <html> or at the depth cap.
// The result always matches n in the same snapshot but may match others
// when the ambiguity sits above the depth cap.
func SynthesizeSelector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if id := attr(n, "id"); id != "" {
		return "#" + cssEscape(id)
	}

	parts := make([]string, 0, maxSelectorDepth)
	cur := n
	for depth := 0; depth < maxSelectorDepth; depth++ {
		parts = append(parts, selectorFragment(cur))
		parent := cur.Parent
		if parent == nil || parent.Type != html.ElementNode || parent.DataAtom == atom.Html {
			break
		}
		cur = parent
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, selectorSeparator)
}

// selectorFragment renders one path level.
func selectorFragment(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString(cssEscape(strings.ToLower(n.Data)))

	classes := strings.Fields(attr(n, "class"))
	if len(classes) > maxClassTokens {
		classes = classes[:maxClassTokens]
	}
	for _, c := range classes {
		sb.WriteByte('.')
		sb.WriteString(cssEscape(c))
	}

	if attr(n, "id") == "" {
		if pos, total := typePosition(n); total > 1 {
			fmt.Fprintf(&sb, ":nth-of-type(%d)", pos)
		}
	}
	return sb.String()
}

// typePosition returns n's 1-based index among same-tag element siblings and
// the number of such siblings. Nodes without an element parent have none.
func typePosition(n *html.Node) (pos, total int) {
	parent := n.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return 0, 0
	}
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != n.Data {
			continue
		}
		total++
		if c == n {
			pos = total
		}
	}
	return pos, total
}

// cssEscape serializes an identifier following the CSSOM escaping rules.
func cssEscape(ident string) string {
	runes := []rune(ident)
	var sb strings.Builder
	for i, r := range runes {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 1 && r >= '0' && r <= '9' && runes[0] == '-':
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 0 && r == '-' && len(runes) == 1:
			sb.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
