package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/keyscope/internal/storage"
	"github.com/IshaanNene/keyscope/internal/types"
)

var (
	downloadPages  int
	downloadStart  int
	downloadDir    string
	downloadOutput string
)

// downloadCmd creates the "download" subcommand, a Naver news only export
// that never substitutes placeholder records.
func downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [keyword]",
		Short: "Download Naver news articles for a keyword to xlsx",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDownload,
	}

	cmd.Flags().IntVarP(&downloadPages, "pages", "p", 5, "number of result pages")
	cmd.Flags().IntVarP(&downloadStart, "start", "s", 1, "first result page")
	cmd.Flags().StringVarP(&downloadDir, "dir", "d", "downloads", "output directory")
	cmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file name (default: [keyword]_news_[date].xlsx)")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Search.Placeholders = false
	cfg.Advanced.CacheResults = false
	logger := setupLogger(cfg)

	q, err := types.NewQuery(strings.Join(args, " "), downloadStart, downloadPages)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.registry.Get("naver_news")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Searching Naver news for %q (pages %d-%d)...\n", q.Keyword, q.StartPage, q.StartPage+q.MaxPages-1)
	records, err := src.Search(ctx, q)
	if err != nil && !errors.Is(err, types.ErrNoResults) {
		return fmt.Errorf("download: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No articles found.")
		return nil
	}
	for i := range records {
		records[i].Source = src.Name()
	}

	path := downloadPath(q.Keyword, time.Now())
	st, err := storage.NewXLSXStorage(path, logger)
	if err != nil {
		return err
	}
	if err := storage.Export(ctx, st, records); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("\n✅ %d articles saved to %s\n", len(records), path)
	return nil
}

// downloadPath applies the -o and -d flags.
func downloadPath(keyword string, now time.Time) string {
	if downloadOutput == "" {
		return storage.DefaultFilename(downloadDir, keyword, storage.KindNews, "xlsx", now)
	}
	name := downloadOutput
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(downloadDir, name)
}
