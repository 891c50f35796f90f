package dom

const (
	headingQuery    = `main h1, main h2, main h3, header h1, header h2`
	breadcrumbQuery = `[aria-label*="breadcrumb"] li, nav.breadcrumb li, .breadcrumb li`
	maxHeadings     = 10
)

// PageMeta is the page level information shown above a sheet's image.
type PageMeta struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Headings        []string `json:"headings,omitempty"`
	Breadcrumbs     []string `json:"breadcrumbs,omitempty"`
}

// ExtractPageMeta reads title, headings, description and breadcrumbs.
func ExtractPageMeta(doc Document) PageMeta {
	meta := PageMeta{URL: doc.URL()}

	if titles, err := doc.QueryAll("head > title, title"); err == nil && len(titles) > 0 {
		meta.Title = doc.Text(titles[0])
	}
	if descs, err := doc.QueryAll(`meta[name="description"]`); err == nil && len(descs) > 0 {
		meta.MetaDescription = attr(descs[0], "content")
	}
	meta.Headings = texts(doc, headingQuery, maxHeadings)
	meta.Breadcrumbs = texts(doc, breadcrumbQuery, 0)
	return meta
}

// texts returns the non-empty texts of matching elements, at most limit
// when limit is positive.
func texts(doc Document, selector string, limit int) []string {
	nodes, err := doc.QueryAll(selector)
	if err != nil {
		return nil
	}
	var out []string
	for _, n := range nodes {
		if t := doc.Text(n); t != "" {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
