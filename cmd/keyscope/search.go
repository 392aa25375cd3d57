package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/keyscope/internal/aggregator"
	"github.com/IshaanNene/keyscope/internal/storage"
)

var (
	searchSources        string
	searchPages          int
	searchMax            int
	searchParallel       bool
	searchOutput         string
	searchFormat         string
	searchNoExport       bool
	searchNoPlaceholders bool
)

// searchCmd creates the "search" subcommand.
func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search a keyword across sources and export the merged results",
		Long: `Search a keyword across the selected sources, merge the records in source
order and export them.

Sources that cannot be scraped fall back to placeholder records unless
--no-placeholders is given. Run "keyscope sources" for the list of names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchSources, "sources", "s", "", "comma-separated source names (default from config)")
	cmd.Flags().IntVarP(&searchPages, "pages", "p", 0, "pages per source (default from config)")
	cmd.Flags().IntVarP(&searchMax, "max", "m", 0, "maximum merged results, 10-100 (default from config)")
	cmd.Flags().BoolVar(&searchParallel, "parallel", false, "query sources concurrently (default from config)")
	cmd.Flags().StringVarP(&searchOutput, "output", "o", "", "export directory (default from config)")
	cmd.Flags().StringVar(&searchFormat, "format", "", "export format: xlsx, csv, json, jsonl")
	cmd.Flags().BoolVar(&searchNoExport, "no-export", false, "print the summary without writing a file")
	cmd.Flags().BoolVar(&searchNoPlaceholders, "no-placeholders", false, "never substitute placeholder records")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if searchOutput != "" {
		cfg.Export.Dir = searchOutput
	}
	if searchFormat != "" {
		cfg.Export.Format = strings.ToLower(searchFormat)
	}
	if searchNoPlaceholders {
		cfg.Search.Placeholders = false
	}
	logger := setupLogger(cfg)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := aggregator.Request{
		Keyword:    strings.Join(args, " "),
		Sources:    splitList(searchSources),
		Pages:      searchPages,
		MaxResults: searchMax,
		Parallel:   cfg.Advanced.ParallelRequests,
	}
	if cmd.Flags().Changed("parallel") {
		req.Parallel = searchParallel
	}

	res, err := a.agg.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	printSummary(res)

	if searchNoExport {
		return nil
	}
	if len(res.Records) == 0 {
		fmt.Println("\n💡 Nothing to export. Try other sources or more pages.")
		return nil
	}

	st, path, err := storage.NewFromConfig(cfg, res.Keyword, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := storage.Export(ctx, st, res.Records); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("   Output:    %s\n", path)
	return nil
}

func printSummary(res *aggregator.Result) {
	fmt.Printf("\n✅ Search for %q complete in %s\n", res.Keyword, res.Duration.Round(time.Millisecond))
	for _, name := range res.Sources {
		line := fmt.Sprintf("   %-14s %3d", name, res.PerSource[name])
		if msg, ok := res.Errors[name]; ok {
			line += "  ⚠ " + msg
		}
		fmt.Println(line)
	}
	fmt.Printf("   Records:   %d total, %d placeholders, %d dropped\n", len(res.Records), res.Placeholders, res.Dropped)
	fmt.Printf("   Run:       %s\n", res.RunID)
}
