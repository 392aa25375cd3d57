package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// sourcesCmd creates the "sources" subcommand.
func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the available sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Printf("%-15s %-16s %-7s %s\n", "NAME", "LABEL", "KIND", "NOTES")
			for _, info := range a.registry.Describe() {
				var notes []string
				if slices.Contains(cfg.Search.DefaultSources, info.Name) {
					notes = append(notes, "default")
				}
				if slices.Contains(cfg.Search.HeavySources, info.Name) {
					notes = append(notes, fmt.Sprintf("max %d pages", cfg.Search.HeavyPageCap))
				}
				if !info.Live {
					notes = append(notes, "placeholders only")
				}
				fmt.Printf("%-15s %-16s %-7s %s\n", info.Name, info.Label, info.Kind, strings.Join(notes, ", "))
			}
			return nil
		},
	}
}
