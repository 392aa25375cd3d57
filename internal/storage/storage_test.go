package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleRecords() []types.Record {
	r1 := types.Record{
		Title:     "인공지능 산업 동향",
		Content:   "국내 인공지능 시장이 빠르게 성장하고 있다.",
		Publisher: "연합뉴스",
		Date:      "2025.03.14.",
		Link:      "https://n.news.naver.com/article/001/0000000001",
		Source:    "naver_news",
	}
	r2 := types.Record{
		Title:       "AI trends",
		Content:     strings.Repeat("x", 250),
		Publisher:   "@ai_daily",
		Date:        "3 hours ago",
		Link:        "https://twitter.com/ai_daily/status/1",
		Source:      "twitter",
		Placeholder: true,
	}
	r2.SetExtra("Engagement", "🔄 12 💬 3 ❤️ 40")
	return []types.Record{r1, r2}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"인공지능":       "인공지능",
		"a/b\\c":     "a_b_c",
		" go  lang ": "go_lang",
		"what?*":     "what_",
		"   ":        "export",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	got := DefaultFilename("downloads", "인공 지능", KindNews, "xlsx", now)
	want := filepath.Join("downloads", "인공_지능_news_20250314.xlsx")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ai_results_20250314.xlsx")
	records := sampleRecords()

	s, err := NewFileStorage("xlsx", path, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := Export(context.Background(), s, records); err != nil {
		t.Fatalf("Export: %v", err)
	}

	got, err := ReadXLSX(path)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	if got[0].Title != records[0].Title || got[0].Publisher != "연합뉴스" || got[0].Source != "naver_news" {
		t.Errorf("first record mismatch: %+v", got[0])
	}
	if !got[1].Placeholder || got[1].Extra["Engagement"] != records[1].Extra["Engagement"] {
		t.Errorf("second record lost extras: %+v", got[1])
	}
	if got[0].Placeholder || len(got[0].Extra) != 0 {
		t.Errorf("first record picked up columns it never had: %+v", got[0])
	}
}

func TestXLSXLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")
	if err := WriteXLSX(path, sampleRecords()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != SheetName {
		t.Errorf("expected sheet %q, got %q", SheetName, name)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	wantHeader := []string{types.ColTitle, types.ColContent, types.ColPublisher, types.ColDate, types.ColLink, types.ColSource, "Engagement", types.ColPlaceholder}
	if strings.Join(rows[0], "|") != strings.Join(wantHeader, "|") {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}

	// The content column holds a 250-rune cell and is capped.
	if w, _ := f.GetColWidth(SheetName, "B"); w != MaxColumnWidth {
		t.Errorf("content column width = %v, want %d", w, MaxColumnWidth)
	}
	// The source column is sized to its longest value plus padding.
	if w, _ := f.GetColWidth(SheetName, "F"); w != float64(len("naver_news")+2) {
		t.Errorf("source column width = %v, want %d", w, len("naver_news")+2)
	}
}

func TestXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteXLSX(path, nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	got, err := ReadXLSX(path)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestJSONStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s, err := NewFileStorage("json", path, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := Export(context.Background(), s, sampleRecords()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []types.Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].Publisher != "@ai_daily" || !got[1].Placeholder {
		t.Errorf("unexpected records: %+v", got)
	}
}

func TestJSONLStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := NewFileStorage("jsonl", path, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := Export(context.Background(), s, sampleRecords()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec types.Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := NewFileStorage("csv", path, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := Export(context.Background(), s, sampleRecords()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), utf8BOM) {
		t.Error("expected UTF-8 BOM")
	}
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != types.ColTitle || rows[0][6] != "Engagement" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][6] != "" || rows[2][7] != "true" {
		t.Errorf("extra columns misaligned: %v / %v", rows[1], rows[2])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := NewFileStorage("parquet", filepath.Join(t.TempDir(), "x"), testLogger); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Dir = t.TempDir()
	cfg.Export.Format = "json"

	s, path, err := NewFromConfig(cfg, "go lang", testLogger)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if s.Name() != "json" {
		t.Errorf("expected json backend, got %s", s.Name())
	}
	if !strings.HasPrefix(filepath.Base(path), "go_lang_results_") {
		t.Errorf("unexpected path %q", path)
	}
	if err := Export(context.Background(), s, sampleRecords()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestNewFromConfigMongoFailureLeavesNoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Dir = t.TempDir()
	cfg.Storage.Type = "mongodb"
	cfg.Storage.URI = "bogus://localhost"

	if _, _, err := NewFromConfig(cfg, "go", testLogger); err == nil {
		t.Fatal("expected a mongodb error")
	}
	entries, err := os.ReadDir(cfg.Export.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty export dir, found %v", entries)
	}
}

func TestFailedExportRemovesFiles(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "partial.csv")
	cs, err := NewCSVStorage(csvPath, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	multi := NewMultiStorage([]Storage{cs, &memStorage{name: "mem", fail: errors.New("disk full")}}, testLogger)
	if err := Export(context.Background(), multi, sampleRecords()); err == nil {
		t.Fatal("expected export error")
	}
	if _, err := os.Stat(csvPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial csv left behind: %v", err)
	}

	jsonlPath := filepath.Join(dir, "partial.jsonl")
	js, err := NewJSONLStorage(jsonlPath, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Export(ctx, js, sampleRecords()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if _, err := os.Stat(jsonlPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial jsonl left behind: %v", err)
	}
}

type memStorage struct {
	name    string
	records []types.Record
	fail    error
	closed  bool
}

func (m *memStorage) Name() string { return m.name }
func (m *memStorage) Close() error { m.closed = true; return nil }
func (m *memStorage) Store(_ context.Context, records []types.Record) error {
	if m.fail != nil {
		return m.fail
	}
	m.records = append(m.records, records...)
	return nil
}

func TestMultiStorage(t *testing.T) {
	boom := errors.New("boom")
	a := &memStorage{name: "a", fail: boom}
	b := &memStorage{name: "b"}
	multi := NewMultiStorage([]Storage{a, b}, testLogger)

	err := multi.Store(context.Background(), sampleRecords())
	if !errors.Is(err, boom) {
		t.Errorf("expected first backend error, got %v", err)
	}
	if len(b.records) != 2 {
		t.Errorf("second backend should still receive records, got %d", len(b.records))
	}
	if err := multi.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("expected every backend to be closed")
	}
}

func TestExportWrapsStorageError(t *testing.T) {
	m := &memStorage{name: "mem", fail: errors.New("disk full")}
	err := Export(context.Background(), m, sampleRecords())

	var se *types.StorageError
	if !errors.As(err, &se) || se.Backend != "mem" {
		t.Errorf("expected StorageError for mem, got %v", err)
	}
	if !m.closed {
		t.Error("expected storage to be closed after a failed store")
	}
}
