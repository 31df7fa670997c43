package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// maxBarWidth is the length of the longest histogram bar.
const maxBarWidth = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show idea statistics",
	Long:  `Show totals per status and the number of ideas in each category.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	stats, err := ideaService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	out := cmd.OutOrStdout()
	cmd.Println(heading(out, "Ideas"))
	cmd.Printf("  Total:        %d\n", stats.Summary.Total)
	cmd.Printf("  Draft:        %d\n", stats.Summary.Draft)
	cmd.Printf("  Pending:      %d\n", stats.Summary.Pending)
	cmd.Printf("  Approved:     %d\n", stats.Summary.Approved)
	cmd.Printf("  Implementing: %d\n", stats.Summary.Implementing)
	cmd.Println()

	cmd.Println(heading(out, "By status"))
	for _, s := range domain.AllStatuses() {
		cmd.Printf("  %-16s %d\n", s.Label(), stats.ByStatus[s])
	}
	cmd.Println()

	cmd.Println(heading(out, "By category"))
	if len(stats.ByCategory) == 0 {
		cmd.Println("  (no ideas yet)")
		return nil
	}
	top := 0
	for _, c := range stats.ByCategory {
		top = max(top, c.Count)
	}
	for _, c := range stats.ByCategory {
		cmd.Printf("  %-12s %s %d\n", c.Category.Label(), bar(c.Count, top), c.Count)
	}
	return nil
}

// bar scales count against the largest count.
func bar(count, top int) string {
	if top <= 0 {
		return ""
	}
	width := count * maxBarWidth / top
	if width == 0 && count > 0 {
		width = 1
	}
	return strings.Repeat("#", width)
}
