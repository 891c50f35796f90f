package workbook

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/anxuanzi/specsheet-go/screenshot"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	fh, err := os.Create(path)
	require.NoError(t, err)
	defer fh.Close()
	require.NoError(t, png.Encode(fh, img))
}

func TestBuilderWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "login_annotated.png")
	writePNG(t, imgPath, 1440, 90)

	b, err := New(Options{Labels: English, Title: "Demo", Language: "en", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	defer b.Close()

	page := samplePage()
	page.Image = Image{Path: imgPath, Width: 1440, Height: 90}
	first, err := b.AddPage(page)
	require.NoError(t, err)

	empty := PageInput{ID: "login", Image: Image{Path: imgPath, Width: 1440, Height: 90}}
	second, err := b.AddPage(empty)
	require.NoError(t, err)
	assert.Equal(t, "login_1", second.SheetName)
	assert.Len(t, b.Sheets(), 2)

	out := filepath.Join(dir, "specs", "demo_screen_spec.xlsx")
	require.NoError(t, b.SaveAs(out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"login", "login_1"}, f.GetSheetList())

	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Screen ID", cell("login", "A1"))
	assert.Equal(t, "login", cell("login", "B1"))
	assert.Equal(t, "Welcome\nSign in", cell("login", "B4"))

	// 1440x90 scales to 720x45: three image rows below row 8, then a gap.
	require.Equal(t, 13, first.TableStartRow)
	assert.Equal(t, "No.", cell("login", "A13"))
	assert.Equal(t, "Validation / Notes", cell("login", "F13"))
	for k, row := range first.Rows {
		r := first.TableStartRow + 1 + k
		assert.Equal(t, row.Selector, cell("login", "D"+strconv.Itoa(r)))
		assert.Equal(t, strconv.Itoa(k+1), cell("login", "A"+strconv.Itoa(r)))
	}

	tables, err := f.GetTables("login")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Spec_login", tables[0].Name)
	assert.Equal(t, "A13:F17", tables[0].Range)

	tables, err = f.GetTables("login_1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Spec_login1", tables[0].Name)
	assert.Equal(t, "A13:F14", tables[0].Range)

	pics, err := f.GetPictures("login", "A9")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestBuilderMissingImage(t *testing.T) {
	b, err := New(Options{})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.AddPage(PageInput{ID: "gone", Image: Image{Path: filepath.Join(t.TempDir(), "gone.png")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, screenshot.ErrMissingAsset)
	assert.Empty(t, b.Sheets())
	assert.Equal(t, 0, b.names.Sheets.Len(), "failed pages do not consume names")
}


func TestBuilderRejectsUnreadableImage(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not an image"), 0o644))
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, 100, 40)

	b, err := New(Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.AddPage(PageInput{ID: "login", Image: Image{Path: broken, Width: 100, Height: 40}})
	require.Error(t, err)
	assert.Equal(t, 0, b.names.Sheets.Len())

	art, err := b.AddPage(PageInput{ID: "login", Image: Image{Path: good, Width: 100, Height: 40}})
	require.NoError(t, err)
	assert.Equal(t, "login", art.SheetName)
	assert.Equal(t, []string{"login"}, b.file.GetSheetList())
}

func TestBuilderRollsBackFailedRender(t *testing.T) {
	dir := t.TempDir()
	// Decodes as PNG but the extension is not one the workbook can embed.
	odd := filepath.Join(dir, "shot.img")
	writePNG(t, odd, 100, 40)
	good := filepath.Join(dir, "shot.png")
	writePNG(t, good, 100, 40)

	b, err := New(Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.AddPage(PageInput{ID: "first", Image: Image{Path: odd, Width: 100, Height: 40}})
	require.Error(t, err)
	assert.ErrorIs(t, err, excelize.ErrImgExt)
	assert.Empty(t, b.Sheets())
	assert.Equal(t, 0, b.names.Sheets.Len())
	assert.Equal(t, 0, b.names.Tables.Len())
	assert.NotContains(t, b.file.GetSheetList(), "first")

	second, err := b.AddPage(PageInput{ID: "second", Image: Image{Path: good, Width: 100, Height: 40}})
	require.NoError(t, err)
	first, err := b.AddPage(PageInput{ID: "first", Image: Image{Path: good, Width: 100, Height: 40}})
	require.NoError(t, err)
	assert.Equal(t, "first", first.SheetName)
	assert.Equal(t, "Spec_first", first.TableName)

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, b.SaveAs(out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{second.SheetName, "first"}, f.GetSheetList())
}

func TestBuilderSavesEmptyWorkbook(t *testing.T) {
	b, err := New(Options{})
	require.NoError(t, err)
	defer b.Close()

	out := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, b.SaveAs(out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

func TestBuilderSheetsIsACopy(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writePNG(t, img, 10, 10)

	b, err := New(Options{})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.AddPage(PageInput{ID: "a", Image: Image{Path: img, Width: 10, Height: 10}})
	require.NoError(t, err)

	sheets := b.Sheets()
	sheets[0].SheetName = "changed"
	assert.Equal(t, "a", b.Sheets()[0].SheetName)
}
