package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conch-sh/conch/internal/config"
	"github.com/conch-sh/conch/internal/history"
)

var (
	historyLimit     int
	historySearch    string
	historyFrequency bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show statements recorded by previous sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.HistoryPath
		if path == "" {
			dataDir, err := config.DefaultDataDir()
			if err != nil {
				return err
			}
			path = filepath.Join(dataDir, "history.db")
		}

		store, err := history.OpenView(path)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyFrequency {
			counts, err := store.CommandCounts()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				if counts[names[i]] != counts[names[j]] {
					return counts[names[i]] > counts[names[j]]
				}
				return names[i] < names[j]
			})
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", counts[name], name)
			}
			return nil
		}

		var entries []history.Entry
		if historySearch != "" {
			entries, err = store.Search(historySearch, historyLimit)
		} else {
			entries, err = store.Recent(historyLimit)
		}
		if err != nil {
			return err
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", e.ID, strings.ReplaceAll(e.Raw, "\n", "\\n"))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 40, "Show at most N entries")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Show entries containing a term")
	historyCmd.Flags().BoolVarP(&historyFrequency, "frequency", "f", false, "Show per-command run counts")
	rootCmd.AddCommand(historyCmd)
}
