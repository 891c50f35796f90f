package workbook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxuanzi/specsheet-go/dom"
)

func samplePage() PageInput {
	return PageInput{
		ID:       "login",
		Title:    "Configured title",
		Path:     "/login",
		Category: "Auth",
		Meta: dom.PageMeta{
			Title:           "Sign in",
			Headings:        []string{"Welcome", "Sign in"},
			MetaDescription: "Sign in page",
		},
		Inventory: dom.Inventory{
			{
				Kind: dom.KindButton, Selector: "#submit", Tag: "button", Type: "submit", Label: "送信",
				Button: &dom.ButtonDetail{Disabled: true, FormAction: "/session"},
				Notes:  "Configured actions: Submit",
			},
			{
				Kind: dom.KindLink, Selector: "footer > a", Tag: "a",
				Link: &dom.LinkDetail{Href: "/help", Target: "_blank"},
			},
			{
				Kind: dom.KindInput, Selector: "#email", Tag: "input", Type: "email", Label: "Email",
				Input: &dom.InputDetail{
					Placeholder: "you@example.com", Value: "a@b.c", Required: true,
					Pattern: ".+@.+", MaxLength: "120", Autocomplete: "email",
					DatasetRules: []string{"data-rule=unique"},
				},
			},
			{
				Kind: dom.KindInput, Selector: "form > select", Tag: "select",
				Input: &dom.InputDetail{
					AriaDescribedBy: "hint",
					Options:         []dom.Option{{Text: "One", Value: "1"}, {Value: "2", Selected: true}},
				},
			},
		},
		Image: Image{Path: "login_annotated.png", Width: 1440, Height: 900},
	}
}

func TestScaleImage(t *testing.T) {
	tests := []struct {
		w, h         int
		scale        float64
		wantW, wantH int
	}{
		{1440, 900, 0.5, 720, 450},
		{720, 300, 1, 720, 300},
		{400, 1000, 1, 400, 1000},
		{1000, 333, 0.72, 720, 240},
		{0, 0, 1, 0, 0},
	}
	for _, tt := range tests {
		scale, w, h := ScaleImage(tt.w, tt.h)
		assert.InDelta(t, tt.scale, scale, 1e-9)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}

func TestTableStartRow(t *testing.T) {
	assert.Equal(t, 10, TableStartRow(0))
	assert.Equal(t, 11, TableStartRow(1))
	assert.Equal(t, 11, TableStartRow(18))
	assert.Equal(t, 35, TableStartRow(450))
}

func TestLayout(t *testing.T) {
	art := Layout(samplePage(), NewNames(), English)

	assert.Equal(t, "login", art.SheetName)
	assert.Equal(t, "Spec_login", art.TableName)
	assert.Equal(t, Placement{Path: "login_annotated.png", Scale: 0.5, Width: 720, Height: 450, Row: 9}, art.Image)
	assert.Equal(t, 35, art.TableStartRow)
	assert.Equal(t, "A35:F39", art.TableRange())
	assert.Equal(t, English.Header(), art.Header)

	assert.Equal(t, []MetaRow{
		{Key: "Screen ID", Value: "login"},
		{Key: "Screen title", Value: "Sign in"},
		{Key: "URL / Path", Value: "/login"},
		{Key: "Main headings", Value: "Welcome\nSign in", Wrap: true},
		{Key: "Category", Value: "Auth"},
		{Key: "Description", Value: "Sign in page", Wrap: true},
	}, art.Metadata)

	require.Len(t, art.Rows, 4)
	assert.Equal(t, Row{
		Number: 1, Kind: "Button", Label: "送信", Selector: "#submit", Action: "/session",
		Notes: "button / type=submit / formaction=/session / disabled\nConfigured actions: Submit",
	}, art.Rows[0])
	assert.Equal(t, Row{
		Number: 2, Kind: "Link", Label: "/help", Selector: "footer > a", Action: "/help",
		Notes: "a / target=_blank",
	}, art.Rows[1])
	assert.Equal(t, Row{
		Number: 3, Kind: "Input", Label: "Email", Selector: "#email", Action: "you@example.com\na@b.c",
		Notes: "Required\nType: email\nPattern: .+@.+\nMax length: 120\nautocomplete=email\ndata-rule=unique",
	}, art.Rows[2])
	assert.Equal(t, Row{
		Number: 4, Kind: "Input", Label: "(label not found)", Selector: "form > select",
		Notes: "Type: select\naria-describedby=hint\nOptions: One / ★ 2",
	}, art.Rows[3])
}

func TestLayoutRowsFollowNumbering(t *testing.T) {
	art := Layout(samplePage(), NewNames(), English)
	for k, row := range art.Rows {
		assert.Equal(t, k+1, row.Number)
		assert.Equal(t, samplePage().Inventory[k].Selector, row.Selector)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	first := Layout(samplePage(), NewNames(), Japanese)
	second := Layout(samplePage(), NewNames(), Japanese)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("layout differs between fresh builds (-first +second):\n%s", diff)
	}
}

func TestLayoutEmptyInventory(t *testing.T) {
	in := PageInput{ID: "empty", Image: Image{Path: "empty.png", Width: 360, Height: 100}}
	art := Layout(in, NewNames(), English)

	assert.Empty(t, art.Rows)
	assert.NotNil(t, art.Rows)
	assert.Equal(t, 8+6+2, art.TableStartRow)
	assert.Greater(t, art.TableStartRow, art.Image.Row+art.Image.Height/RowHeightFactor)
	assert.Equal(t, "A16:F17", art.TableRange())

	assert.Equal(t, "(no headings)", art.Metadata[3].Value)
	assert.Equal(t, "(not set)", art.Metadata[4].Value)
	assert.Equal(t, "(no description)", art.Metadata[5].Value)
}

func TestLayoutCollidingPages(t *testing.T) {
	names := NewNames()
	a := Layout(PageInput{ID: "Screen A!"}, names, English)
	b := Layout(PageInput{ID: "Screen A?"}, names, English)

	assert.Equal(t, "Screen A", a.SheetName)
	assert.Equal(t, "Screen A_1", b.SheetName)
	assert.Equal(t, "Spec_ScreenA", a.TableName)
	assert.Equal(t, "Spec_ScreenA1", b.TableName)
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, Japanese, LabelsFor("ja"))
	assert.Equal(t, Japanese, LabelsFor("ja-JP"))
	assert.Equal(t, English, LabelsFor("en"))
	assert.Equal(t, English, LabelsFor(""))
	assert.Equal(t, English, LabelsFor("fr"))
	assert.Equal(t, "ボタン", Japanese.KindName(dom.KindButton))
}
