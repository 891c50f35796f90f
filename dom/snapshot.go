package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the read-only element tree view the inventory is built from.
type Document interface {
	// URL returns the address the snapshot was taken from.
	URL() string
	// QueryAll returns the elements matching a CSS selector group in document order.
	QueryAll(selector string) ([]*html.Node, error)
	// ElementByID returns the first element carrying the id, or nil.
	ElementByID(id string) *html.Node
	// Text returns the element's whitespace-normalized rendered text.
	Text(n *html.Node) string
	// Box returns the element's geometry; zero for unrendered elements.
	Box(n *html.Node) BoundingBox
	// Value returns the current value of a form control.
	Value(n *html.Node) string
	// Selected reports whether an option element is currently selected.
	Selected(n *html.Node) bool
}

// Snapshot is an immutable DOM tree captured at one point in time.
// Geometry and form state are kept beside the tree; when the snapshot
// comes from a live page they reflect runtime state, otherwise they are
// derived from markup.
type Snapshot struct {
	url      string
	doc      *goquery.Document
	ids      map[string]*html.Node
	boxes    map[*html.Node]BoundingBox
	values   map[*html.Node]string
	selected map[*html.Node]bool
	live     bool
}

var _ Document = (*Snapshot)(nil)

// NewSnapshot wraps a parsed tree rooted at a document node. Element names
// are lowercased in place, so SVG and MathML names such as foreignObject
// match lowercase type selectors like every other element.
func NewSnapshot(root *html.Node, url string) *Snapshot {
	s := &Snapshot{
		url:      url,
		doc:      goquery.NewDocumentFromNode(root),
		ids:      make(map[string]*html.Node),
		boxes:    make(map[*html.Node]BoundingBox),
		values:   make(map[*html.Node]string),
		selected: make(map[*html.Node]bool),
	}
	walkElements(root, func(n *html.Node) {
		if lower := strings.ToLower(n.Data); lower != n.Data {
			n.Data = lower
			n.DataAtom = atom.Lookup([]byte(lower))
		}
		if id := attr(n, "id"); id != "" {
			if _, seen := s.ids[id]; !seen {
				s.ids[id] = n
			}
		}
	})
	return s
}

// ParseHTML builds a snapshot from markup. Elements have no geometry until
// SetBox is called.
func ParseHTML(r io.Reader, url string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return NewSnapshot(doc.Nodes[0], url), nil
}

// SetBox records the geometry of an element.
func (s *Snapshot) SetBox(n *html.Node, box BoundingBox) {
	s.boxes[n] = box
}

// Root returns the document node.
func (s *Snapshot) Root() *html.Node {
	return s.doc.Nodes[0]
}

// URL implements Document.
func (s *Snapshot) URL() string {
	return s.url
}

// QueryAll implements Document.
func (s *Snapshot) QueryAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return s.doc.FindMatcher(sel).Nodes, nil
}

// MustQueryAll is QueryAll for selectors known to be valid.
func (s *Snapshot) MustQueryAll(selector string) []*html.Node {
	nodes, err := s.QueryAll(selector)
	if err != nil {
		panic(err)
	}
	return nodes
}

// ElementByID implements Document.
func (s *Snapshot) ElementByID(id string) *html.Node {
	return s.ids[id]
}

// Text implements Document.
func (s *Snapshot) Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	collectText(n, &sb)
	return normalizeSpace(sb.String())
}

// Box implements Document.
func (s *Snapshot) Box(n *html.Node) BoundingBox {
	return s.boxes[n]
}

// Value implements Document.
func (s *Snapshot) Value(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if n.DataAtom == atom.Select {
		for _, opt := range s.options(n) {
			if s.Selected(opt) {
				return optionValue(s, opt)
			}
		}
		return ""
	}
	if v, ok := s.values[n]; ok {
		return v
	}
	if s.live {
		return ""
	}
	switch n.DataAtom {
	case atom.Textarea:
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	case atom.Input:
		return attr(n, "value")
	}
	return ""
}

// Selected implements Document.
func (s *Snapshot) Selected(n *html.Node) bool {
	if n == nil || n.DataAtom != atom.Option {
		return false
	}
	if s.live {
		return s.selected[n]
	}
	if hasAttr(n, "selected") {
		return true
	}
	// A single-select with no explicit selection shows its first option.
	sel := owningSelect(n)
	if sel == nil || hasAttr(sel, "multiple") {
		return false
	}
	opts := s.options(sel)
	for _, o := range opts {
		if hasAttr(o, "selected") {
			return false
		}
	}
	return len(opts) > 0 && opts[0] == n
}

// options lists the option descendants of a select in document order.
func (s *Snapshot) options(sel *html.Node) []*html.Node {
	var opts []*html.Node
	walkElements(sel, func(n *html.Node) {
		if n.DataAtom == atom.Option {
			opts = append(opts, n)
		}
	})
	return opts
}

func owningSelect(opt *html.Node) *html.Node {
	for p := opt.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Select {
			return p
		}
	}
	return nil
}

func optionValue(doc Document, opt *html.Node) string {
	if hasAttr(opt, "value") {
		return attr(opt, "value")
	}
	return doc.Text(opt)
}

// blockBoundaries break words apart the way rendered line breaks would.
var blockBoundaries = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.Option: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true,
	atom.Tr: true, atom.Ul: true,
}

// collectText appends rendered text, skipping non-rendered containers.
func collectText(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				continue
			}
			block := blockBoundaries[c.DataAtom]
			if block {
				sb.WriteByte(' ')
			}
			collectText(c, sb)
			if block {
				sb.WriteByte(' ')
			}
		}
	}
}

// walkElements visits n and its element descendants in document order.
func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

// dataAttributes returns the data-* attributes of n as "data-key=value".
func dataAttributes(n *html.Node, keep func(key string) bool) []string {
	var out []string
	for _, a := range n.Attr {
		if a.Namespace != "" || !strings.HasPrefix(a.Key, "data-") {
			continue
		}
		if keep != nil && !keep(strings.TrimPrefix(a.Key, "data-")) {
			continue
		}
		out = append(out, a.Key+"="+a.Val)
	}
	return out
}
