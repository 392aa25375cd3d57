package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/IshaanNene/keyscope/internal/types"
)

// SheetName is the worksheet every export writes to.
const SheetName = "Results"

// MaxColumnWidth caps auto-sized columns.
const MaxColumnWidth = 100

// XLSXStorage buffers records and writes a workbook on Close.
type XLSXStorage struct {
	path    string
	records []types.Record
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewXLSXStorage creates a new xlsx workbook storage.
func NewXLSXStorage(outputPath string, logger *slog.Logger) (*XLSXStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &XLSXStorage{
		path:   outputPath,
		logger: logger.With("component", "xlsx_storage"),
	}, nil
}

func (s *XLSXStorage) Name() string { return "xlsx" }
func (s *XLSXStorage) Path() string { return s.path }

func (s *XLSXStorage) Store(_ context.Context, records []types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.logger.Debug("records buffered", "count", len(records), "total", len(s.records))
	return nil
}

func (s *XLSXStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := WriteXLSX(s.path, s.records); err != nil {
		return err
	}
	s.logger.Info("workbook written", "path", s.path, "records", len(s.records))
	return nil
}

// WriteXLSX writes records to a single-sheet workbook. The header row uses
// the standard column order followed by any extra columns, and every column
// is sized to its longest cell.
func WriteXLSX(path string, records []types.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	columns := types.ColumnOrder(records)
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for r, rec := range records {
		cols := rec.Columns()
		row := make([]any, len(columns))
		for i, col := range columns {
			v := cols[col]
			row[i] = v
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, name, name, float64(min(w+2, MaxColumnWidth))); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ReadXLSX loads a workbook written by WriteXLSX (or any sheet with a header
// row) back into records. The "Results" sheet is preferred; otherwise the
// first sheet is read.
func ReadXLSX(path string) ([]types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(SheetName); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]types.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cols := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			cols[key] = row[i]
		}
		records = append(records, types.RecordFromColumns(cols))
	}
	return records, nil
}
