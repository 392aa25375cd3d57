package config

import (
	"strings"
	"testing"
)

func TestValidateExportFormat(t *testing.T) {
	for _, format := range []string{"xlsx", "json", "jsonl", "csv"} {
		cfg := DefaultConfig()
		cfg.Export.Format = format
		if err := Validate(cfg); err != nil {
			t.Errorf("%s: unexpected error: %v", format, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Export.Format = "parquet"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "parquet") {
		t.Errorf("expected an export.format error, got %v", err)
	}
	if IsExportFormat("") || IsExportFormat("XLSX") {
		t.Error("empty and upper-case formats should not be accepted")
	}
}
