package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anxuanzi/specsheet-go/screenshot"
)

const (
	defaultSheet = "Sheet1"
	// placeholderSheet holds the workbook's mandatory sheet until the first
	// page lands. SanitizeSheetName strips '~', so no page can claim it.
	placeholderSheet = "~empty"
	tableStyle       = "TableStyleMedium9"
)

// DefaultCreator is written to the workbook's document properties.
const DefaultCreator = "specsheet"

// Options configures a Builder.
type Options struct {
	Labels  Labels
	Creator string
	Title   string
	// Language is stored in the document properties, e.g. "en" or "ja".
	Language string
	Logger   *zap.Logger
}

// Builder accumulates one sheet per page in an in-memory workbook. It is not
// safe for concurrent use; pages are added one at a time.
type Builder struct {
	file   *excelize.File
	names  *Names
	labels Labels
	logger *zap.Logger

	sheets    []SheetArtifact
	wrapStyle int
}

// New creates an empty workbook.
func New(opts Options) (*Builder, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Labels.ColNumber == "" {
		opts.Labels = English
	}
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}

	f := excelize.NewFile()
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:  opts.Creator,
		Created:  time.Now().UTC().Format(time.RFC3339),
		Title:    opts.Title,
		Language: opts.Language,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetName(defaultSheet, placeholderSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create cell style: %w", err)
	}

	return &Builder{
		file:      f,
		names:     NewNames(),
		labels:    opts.Labels,
		logger:    opts.Logger.Named("workbook"),
		wrapStyle: wrap,
	}, nil
}

// Sheets returns the artifacts added so far.
func (b *Builder) Sheets() []SheetArtifact {
	return slices.Clone(b.sheets)
}

// AddPage lays out and renders one page. A missing screenshot fails with
// screenshot.ErrMissingAsset and an unreadable one fails too, both before
// any name is reserved. A page that fails while rendering leaves no sheet
// behind and gives its names back.
func (b *Builder) AddPage(in PageInput) (SheetArtifact, error) {
	if _, _, err := screenshot.Size(in.Image.Path); err != nil {
		return SheetArtifact{}, err
	}

	art := Layout(in, b.names, b.labels)
	if err := b.render(art); err != nil {
		b.discard(art)
		return SheetArtifact{}, fmt.Errorf("failed to render sheet %q: %w", art.SheetName, err)
	}
	if len(b.sheets) == 0 {
		if err := b.file.DeleteSheet(placeholderSheet); err != nil {
			b.discard(art)
			return SheetArtifact{}, fmt.Errorf("failed to drop placeholder sheet: %w", err)
		}
	}
	b.sheets = append(b.sheets, art)

	b.logger.Debug("Sheet added",
		zap.String("sheet", art.SheetName),
		zap.String("table", art.TableName),
		zap.Int("rows", len(art.Rows)),
		zap.Int("table_start_row", art.TableStartRow))
	return art, nil
}

func (b *Builder) render(art SheetArtifact) error {
	f := b.file
	sheet := art.SheetName

	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for _, cw := range []struct {
		from, to string
		width    float64
	}{{"A", "A", 14}, {"B", "B", 80}, {"C", "F", 18}} {
		if err := f.SetColWidth(sheet, cw.from, cw.to, cw.width); err != nil {
			return err
		}
	}

	for i, m := range art.Metadata {
		row := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key); err != nil {
			return err
		}
		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellValue(sheet, cell, m.Value); err != nil {
			return err
		}
		if m.Wrap {
			if err := f.SetCellStyle(sheet, cell, cell, b.wrapStyle); err != nil {
				return err
			}
		}
	}

	if err := f.AddPicture(sheet, fmt.Sprintf("A%d", art.Image.Row), art.Image.Path, &excelize.GraphicOptions{
		ScaleX: art.Image.Scale,
		ScaleY: art.Image.Scale,
	}); err != nil {
		return fmt.Errorf("failed to embed image: %w", err)
	}

	header := art.Header
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", art.TableStartRow), &header); err != nil {
		return err
	}
	for i, r := range art.Rows {
		cells := r.Cells()
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", art.TableStartRow+1+i), &cells); err != nil {
			return err
		}
	}
	if n := len(art.Rows); n > 0 {
		first, last := art.TableStartRow+1, art.TableStartRow+n
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", first), fmt.Sprintf("F%d", last), b.wrapStyle); err != nil {
			return err
		}
	}

	stripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:          art.TableRange(),
		Name:           art.TableName,
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}

// discard removes a partially rendered sheet and releases its names.
func (b *Builder) discard(art SheetArtifact) {
	if idx, err := b.file.GetSheetIndex(art.SheetName); err == nil && idx >= 0 {
		if err := b.file.DeleteSheet(art.SheetName); err != nil {
			b.logger.Warn("Failed to remove partial sheet", zap.String("sheet", art.SheetName), zap.Error(err))
		}
	}
	b.names.Sheets.Release(art.SheetName)
	b.names.Tables.Release(art.TableName)
}

// SaveAs writes the workbook, creating the parent directory. A workbook
// without pages is saved with a single empty Sheet1.
func (b *Builder) SaveAs(path string) error {
	if len(b.sheets) == 0 {
		if idx, err := b.file.GetSheetIndex(placeholderSheet); err == nil && idx >= 0 {
			if err := b.file.SetSheetName(placeholderSheet, defaultSheet); err != nil {
				return fmt.Errorf("failed to name empty sheet: %w", err)
			}
		}
	}
	if len(b.sheets) > 0 {
		if idx, err := b.file.GetSheetIndex(b.sheets[0].SheetName); err == nil && idx >= 0 {
			b.file.SetActiveSheet(idx)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := b.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	b.logger.Info("Workbook saved", zap.String("path", path), zap.Int("sheets", len(b.sheets)))
	return nil
}

// Close releases the workbook's resources.
func (b *Builder) Close() error {
	return b.file.Close()
}
