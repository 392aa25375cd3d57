package main

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSplitList(t *testing.T) {
	got := splitList(" naver_news, ,google_search ,")
	want := []string{"naver_news", "google_search"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("expected nil for an empty flag")
	}
}

func TestDownloadPath(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	defer func() { downloadDir, downloadOutput = "downloads", "" }()

	tests := []struct {
		dir, output, want string
	}{
		{"downloads", "", filepath.Join("downloads", "ai_news_20250314.xlsx")},
		{"out", "report", filepath.Join("out", "report.xlsx")},
		{"out", "report.XLSX", filepath.Join("out", "report.XLSX")},
		{"out", filepath.Join("elsewhere", "r.xlsx"), filepath.Join("elsewhere", "r.xlsx")},
	}
	for _, tt := range tests {
		downloadDir, downloadOutput = tt.dir, tt.output
		if got := downloadPath("ai", now); got != tt.want {
			t.Errorf("downloadPath(dir=%q, output=%q) = %q, want %q", tt.dir, tt.output, got, tt.want)
		}
	}
}
