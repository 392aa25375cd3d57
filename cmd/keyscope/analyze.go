package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/keyscope/internal/analysis"
)

var (
	analyzeTop int
	analyzeDir string
)

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Summarize an exported workbook (newest export by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().IntVarP(&analyzeTop, "top", "t", 20, "number of frequent words to show")
	cmd.Flags().StringVarP(&analyzeDir, "dir", "d", "", "export directory (default from config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeDir != "" {
		cfg.Export.Dir = analyzeDir
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		latest, err := analysis.Latest(cfg.Export.Dir)
		if err != nil {
			return err
		}
		path = latest.Path
	}

	rep, err := analysis.Analyze(path, analyzeTop)
	if err != nil {
		return err
	}

	f := rep.File
	fmt.Printf("📄 %s\n", f.Name)
	fmt.Printf("   Keyword:   %s\n", f.Keyword)
	fmt.Printf("   Date:      %s\n", f.Date)
	fmt.Printf("   Modified:  %s\n", f.Modified.Format("2006-01-02 15:04:05"))
	fmt.Printf("   Size:      %.1f KB\n", f.SizeKB)

	ov := rep.Overview
	fmt.Printf("\nOverview:\n")
	fmt.Printf("   Records:        %d (%d placeholders)\n", ov.Total, ov.Placeholders)
	fmt.Printf("   Unique sources: %d\n", ov.UniqueSources)
	fmt.Printf("   Unique dates:   %d\n", ov.UniqueDates)

	if len(rep.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		top := rep.Sources[0].Count
		for _, s := range rep.Sources {
			fmt.Printf("   %-24s %4d %s\n", s.Name, s.Count, strings.Repeat("█", max(1, 30*s.Count/top)))
		}
	}

	c := rep.Content
	fmt.Printf("\nContent length:\n")
	fmt.Printf("   Average %.0f chars, shortest %d, longest %d\n", c.Mean, c.Min, c.Max)

	if len(rep.Words) > 0 {
		fmt.Printf("\nTop words:\n")
		for i, w := range rep.Words {
			fmt.Printf("   %2d. %-20s %d\n", i+1, w.Word, w.Count)
		}
	}
	return nil
}
