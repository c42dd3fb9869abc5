package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/farelock/pkg/store"
)

// historyCommand creates the "history" command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded query reports",
		Long: `List query reports recorded with --save or by "farelock serve",
newest first. Reports are read from the store configured under [store].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStoreIf(ctx, true)
			if err != nil {
				return err
			}
			defer st.Close()

			if !cmd.Flags().Changed("limit") {
				limit = c.config.Store.HistoryLimit
			}
			reports, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			renderHistory(c.Out, reports, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum reports to list (default from config)")
	return cmd
}

func renderHistory(w io.Writer, reports []store.Report, now time.Time) {
	if len(reports) == 0 {
		printInfo(w, "No reports recorded")
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.ID[:min(8, len(r.ID))],
			formatRelativeTime(r.CreatedAt, now),
			r.Kind,
			r.Subject,
			orNone(r.Primary),
			strconv.Itoa(r.Dependencies),
			strconv.Itoa(r.WithMetadata),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "When", "Kind", "Subject", "Primary", "Deps", "Declared").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0 || col == 1:
				return StyleDim
			case col >= 5:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
