// Package workbook lays out one spec sheet per page and renders the sheets
// into a single spreadsheet file.
package workbook

import (
	"fmt"
	"math"
	"strings"

	"github.com/anxuanzi/specsheet-go/dom"
)

const (
	// MaxImageWidth is the widest an embedded screenshot is shown, in pixels.
	MaxImageWidth = 720
	// RowHeightFactor approximates the pixel height of one sheet row.
	RowHeightFactor = 18

	// imageTopRow is the zero-based row the image is anchored at.
	imageTopRow = 8
	// tableGapRows separates the image bottom from the table header.
	tableGapRows = 2

	noteSeparator      = "\n"
	attributeSeparator = " / "
	selectedMarker     = "★ "
)

// Image is a screenshot on disk and its pixel dimensions.
type Image struct {
	Path   string
	Width  int
	Height int
}

// PageInput is everything needed to lay out one page's sheet.
type PageInput struct {
	// ID is the configured page name.
	ID          string
	Title       string
	Path        string
	Category    string
	Description string

	Meta      dom.PageMeta
	Inventory dom.Inventory
	Image     Image
}

// MetaRow is one key/value line of the header block.
type MetaRow struct {
	Key   string
	Value string
	Wrap  bool
}

// Placement is the scaled geometry of the embedded image.
type Placement struct {
	Path   string
	Scale  float64
	Width  int
	Height int
	// Row is the one-based anchor row.
	Row int
}

// Row is one table line; Number matches the overlay marker.
type Row struct {
	Number   int
	Kind     string
	Label    string
	Selector string
	Action   string
	Notes    string
}

// Cells returns the row in column order.
func (r Row) Cells() []any {
	return []any{r.Number, r.Kind, r.Label, r.Selector, r.Action, r.Notes}
}

// SheetArtifact is the laid-out content of one page's sheet.
type SheetArtifact struct {
	SheetName string
	TableName string
	Metadata  []MetaRow
	Image     Placement
	// TableStartRow is the one-based row of the table header.
	TableStartRow int
	Header        []string
	Rows          []Row
}

// TableRange returns the table's cell range. A table with no rows keeps a
// single empty body row.
func (a SheetArtifact) TableRange() string {
	last := a.TableStartRow + max(len(a.Rows), 1)
	return fmt.Sprintf("A%d:F%d", a.TableStartRow, last)
}

// ScaleImage shrinks width to MaxImageWidth, never enlarging, and keeps the
// aspect ratio.
func ScaleImage(width, height int) (scale float64, w, h int) {
	scale = 1
	if width > MaxImageWidth {
		scale = float64(MaxImageWidth) / float64(width)
	}
	return scale, roundHalfUp(float64(width) * scale), roundHalfUp(float64(height) * scale)
}

// TableStartRow returns the one-based header row for a table placed below an
// image of the given scaled height.
func TableStartRow(scaledHeight int) int {
	rows := int(math.Ceil(float64(max(scaledHeight, 0)) / RowHeightFactor))
	return imageTopRow + rows + tableGapRows
}

// Layout reserves the sheet and table names and computes the sheet content
// for one page. Rows follow inventory order, so row k carries number k.
func Layout(in PageInput, names *Names, labels Labels) SheetArtifact {
	sheet := names.Sheets.Reserve(SanitizeSheetName(in.ID))
	table := names.Tables.Reserve(TableNameBase(sheet))

	scale, w, h := ScaleImage(in.Image.Width, in.Image.Height)

	art := SheetArtifact{
		SheetName: sheet,
		TableName: table,
		Metadata:  metadata(in, labels),
		Image: Placement{
			Path:   in.Image.Path,
			Scale:  scale,
			Width:  w,
			Height: h,
			Row:    imageTopRow + 1,
		},
		TableStartRow: TableStartRow(h),
		Header:        labels.Header(),
		Rows:          make([]Row, 0, len(in.Inventory)),
	}

	for i, rec := range in.Inventory {
		art.Rows = append(art.Rows, buildRow(i+1, rec, labels))
	}
	return art
}

func metadata(in PageInput, l Labels) []MetaRow {
	headings := strings.Join(in.Meta.Headings, "\n")
	return []MetaRow{
		{Key: l.ID, Value: in.ID},
		{Key: l.Title, Value: firstNonEmpty(in.Meta.Title, in.Title)},
		{Key: l.Path, Value: in.Path},
		{Key: l.Headings, Value: firstNonEmpty(headings, l.NoHeadings), Wrap: true},
		{Key: l.Category, Value: firstNonEmpty(in.Category, l.NotSet)},
		{Key: l.Description, Value: firstNonEmpty(in.Description, in.Meta.MetaDescription, l.NoDescription), Wrap: true},
	}
}

func buildRow(number int, rec dom.ElementRecord, l Labels) Row {
	row := Row{
		Number:   number,
		Kind:     l.KindName(rec.Kind),
		Label:    rec.Label,
		Selector: rec.Selector,
	}

	var validation, attributes string
	switch rec.Kind {
	case dom.KindButton:
		row.Label = firstNonEmpty(rec.Label, l.NoText)
		attributes = buttonAttributes(rec)
		if b := rec.Button; b != nil {
			row.Action = firstNonEmpty(b.Href, b.FormAction)
		}
	case dom.KindLink:
		attributes = linkAttributes(rec)
		href := ""
		if rec.Link != nil {
			href = rec.Link.Href
		}
		row.Label = firstNonEmpty(rec.Label, href, l.NoLink)
		row.Action = href
	case dom.KindInput:
		row.Label = firstNonEmpty(rec.Label, l.NoLabel)
		if in := rec.Input; in != nil {
			row.Action = joinNonEmpty(noteSeparator, in.Placeholder, in.Value)
			validation = validationSummary(rec, l)
			attributes = inputNotes(in, l)
		}
	}

	row.Notes = joinNonEmpty(noteSeparator, validation, attributes, rec.Notes)
	return row
}

func buttonAttributes(rec dom.ElementRecord) string {
	parts := []string{rec.Tag, prefixed("role=", rec.Role), prefixed("type=", rec.Type)}
	var dataset []string
	if b := rec.Button; b != nil {
		parts = append(parts, prefixed("formaction=", b.FormAction))
		if b.Disabled {
			parts = append(parts, "disabled")
		}
		dataset = b.DatasetNotes
	}
	return joinNonEmpty(noteSeparator, joinNonEmpty(attributeSeparator, parts...), strings.Join(dataset, noteSeparator))
}

func linkAttributes(rec dom.ElementRecord) string {
	parts := []string{rec.Tag, prefixed("role=", rec.Role)}
	var dataset []string
	if ln := rec.Link; ln != nil {
		parts = append(parts, prefixed("target=", ln.Target))
		dataset = ln.DatasetNotes
	}
	return joinNonEmpty(noteSeparator, joinNonEmpty(attributeSeparator, parts...), strings.Join(dataset, noteSeparator))
}

// validationSummary lists the constraints of a form control, one per line.
func validationSummary(rec dom.ElementRecord, l Labels) string {
	in := rec.Input
	var lines []string
	if in.Required {
		lines = append(lines, l.Required)
	}
	typ := rec.Type
	if rec.Tag != "" && rec.Tag != "input" {
		typ = rec.Tag
	}
	if typ != "" && typ != "text" {
		lines = append(lines, l.Type+": "+typ)
	}
	for _, kv := range [][2]string{
		{l.Pattern, in.Pattern},
		{l.MinLength, in.MinLength},
		{l.MaxLength, in.MaxLength},
		{l.Min, in.Min},
		{l.Max, in.Max},
		{l.Step, in.Step},
	} {
		if kv[1] != "" {
			lines = append(lines, kv[0]+": "+kv[1])
		}
	}
	if in.Autocomplete != "" {
		lines = append(lines, "autocomplete="+in.Autocomplete)
	}
	lines = append(lines, in.DatasetRules...)
	return strings.Join(lines, noteSeparator)
}

func inputNotes(in *dom.InputDetail, l Labels) string {
	var lines []string
	if in.AriaDescribedBy != "" {
		lines = append(lines, "aria-describedby="+in.AriaDescribedBy)
	}
	if in.AriaDescription != "" {
		lines = append(lines, "aria-description="+in.AriaDescription)
	}
	if len(in.Options) > 0 {
		opts := make([]string, 0, len(in.Options))
		for _, o := range in.Options {
			text := firstNonEmpty(o.Text, o.Value)
			if o.Selected {
				text = selectedMarker + text
			}
			opts = append(opts, text)
		}
		lines = append(lines, l.Options+": "+strings.Join(opts, attributeSeparator))
	}
	return strings.Join(lines, noteSeparator)
}

func prefixed(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// roundHalfUp rounds like Math.round for non-negative inputs.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
