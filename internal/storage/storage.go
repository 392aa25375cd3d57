package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Storage is the interface for all export backends.
type Storage interface {
	// Store persists a batch of records.
	Store(ctx context.Context, records []types.Record) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// FileStorage is a Storage that produces a single file.
type FileStorage interface {
	Storage
	Path() string
}

// Export kinds used in default file names.
const (
	KindResults = "results"
	KindNews    = "news"
)

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// SanitizeFilename replaces characters that are invalid in file names.
func SanitizeFilename(s string) string {
	s = unsafeFilename.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		return "export"
	}
	return s
}

// DefaultFilename returns {dir}/{keyword}_{kind}_{YYYYMMDD}.{ext}.
func DefaultFilename(dir, keyword, kind, ext string, now time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.%s", SanitizeFilename(keyword), kind, now.Format("20060102"), ext)
	return filepath.Join(dir, name)
}

// NewFileStorage creates the file backend for format at path.
func NewFileStorage(format, path string, logger *slog.Logger) (FileStorage, error) {
	switch format {
	case "xlsx":
		return NewXLSXStorage(path, logger)
	case "json":
		return NewJSONStorage(path, logger)
	case "jsonl":
		return NewJSONLStorage(path, logger)
	case "csv":
		return NewCSVStorage(path, logger)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// NewFromConfig builds the export backend for a keyword: a file in
// export.format under export.dir, fanned out to MongoDB when storage.type is
// mongodb. It returns the file path written on Close.
func NewFromConfig(cfg *config.Config, keyword string, logger *slog.Logger) (Storage, string, error) {
	path := DefaultFilename(cfg.Export.Dir, keyword, KindResults, cfg.Export.Format, time.Now())
	file, err := NewFileStorage(cfg.Export.Format, path, logger)
	if err != nil {
		return nil, "", err
	}

	if cfg.Storage.Type != "mongodb" {
		return file, path, nil
	}

	mongo, err := NewMongoStorage(cfg.Storage.URI, cfg.Storage.Database, cfg.Storage.Collection, logger)
	if err != nil {
		discard(file)
		return nil, "", &types.StorageError{Backend: "mongodb", Err: err}
	}
	return NewMultiStorage([]Storage{file, mongo}, logger), path, nil
}

// Export writes records through s and closes it. A failed export leaves no
// file behind.
func Export(ctx context.Context, s Storage, records []types.Record) error {
	if err := s.Store(ctx, records); err != nil {
		discard(s)
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	if err := s.Close(); err != nil {
		removeFiles(s)
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	observability.Global.Exports.Add(1)
	return nil
}

// discard closes s and deletes any file it produced.
func discard(s Storage) {
	s.Close()
	removeFiles(s)
}

func removeFiles(s Storage) {
	switch st := s.(type) {
	case FileStorage:
		if err := os.Remove(st.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Default().Warn("remove partial export", "path", st.Path(), "error", err)
		}
	case *MultiStorage:
		for _, b := range st.backends {
			removeFiles(b)
		}
	}
}
