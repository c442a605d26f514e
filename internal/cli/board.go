package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/domain"
	"taskboard/internal/seed"
	"taskboard/internal/taskstore"

	"github.com/spf13/cobra"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "YAML seed file (default: built-in sample board)")
	cmd.Flags().String("today", "", "Reference date YYYY-MM-DD (default: today)")
	cmd.Flags().Bool("json", false, "Print JSON instead of text")
}

// loadTasks reads the seed source and normalizes it through the store.
func loadTasks(cmd *cobra.Command) ([]*domain.Task, domain.Date, error) {
	file, _ := cmd.Flags().GetString("file")
	todayFlag, _ := cmd.Flags().GetString("today")

	today, err := domain.ParseDate(todayFlag)
	if err != nil {
		return nil, domain.Date{}, err
	}
	if today.IsZero() {
		today = board.Today(time.Now(), time.Local)
	}

	tasks := seed.Sample()
	if file != "" {
		if tasks, err = seed.LoadFile(file); err != nil {
			return nil, domain.Date{}, err
		}
	}
	store := taskstore.New()
	store.Dispatch(taskstore.LoadTasks{Tasks: tasks})
	return store.Tasks(), today, nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks as the board shows them",
		RunE:  runList,
	}
	addSourceFlags(cmd)
	cmd.Flags().String("filter", "all", "Filter: all|pending|completed|high|overdue")
	cmd.Flags().String("search", "", "Case-insensitive title/description search")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	filterFlag, _ := cmd.Flags().GetString("filter")
	search, _ := cmd.Flags().GetString("search")
	asJSON, _ := cmd.Flags().GetBool("json")

	mode, err := domain.ParseFilterMode(filterFlag)
	if err != nil {
		return fmt.Errorf("%w %q", err, filterFlag)
	}
	tasks, today, err := loadTasks(cmd)
	if err != nil {
		return err
	}

	selected := board.Select(tasks, board.Query{Search: search, Filter: mode, Today: today})
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, selected)
	}

	if len(selected) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	fmt.Fprintf(out, "Tasks (%d, filter=%s, today=%s):\n\n", len(selected), mode, today)
	for _, t := range selected {
		due := t.DueDate.String()
		if due == "" {
			due = "-"
		}
		var flags []string
		if t.Completed {
			flags = append(flags, "done")
		}
		if board.IsOverdue(t, today) {
			flags = append(flags, "overdue")
		}
		line := fmt.Sprintf("  #%-4d %-10s  %-6s  %-12s  %s", t.ID, due, t.Priority, t.Category, t.Title)
		if len(flags) > 0 {
			line += "  [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show completion statistics",
		RunE:  runAnalytics,
	}
	addSourceFlags(cmd)
	return cmd
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	tasks, today, err := loadTasks(cmd)
	if err != nil {
		return err
	}

	a := board.Compute(tasks, today)
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, a)
	}

	fmt.Fprintf(out, "Analytics (today=%s)\n\n", today)
	fmt.Fprintf(out, "  Total:            %d\n", a.Total)
	fmt.Fprintf(out, "  Completed:        %d\n", a.Completed)
	fmt.Fprintf(out, "  Pending:          %d\n", a.Pending)
	fmt.Fprintf(out, "  Overdue:          %d\n", a.Overdue)
	fmt.Fprintf(out, "  Completion rate:  %d%%\n", a.CompletionRate)

	if len(a.Categories) > 0 {
		fmt.Fprintln(out, "\nBy category:")
		for _, c := range a.Categories {
			fmt.Fprintf(out, "  %-12s %3d  (%.0f%%)\n", c.Category, c.Count, c.Share)
		}
	}
	if len(a.Recent) > 0 {
		fmt.Fprintln(out, "\nRecently completed:")
		for _, t := range a.Recent {
			fmt.Fprintf(out, "  %s  %s\n", t.CompletedAt.Format("2006-01-02 15:04"), t.Title)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
