package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var historyFilter string

var (
	historyHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				Padding(0, 1)

	chatTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	diagramTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	historyIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	historyDateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent chats and diagrams",
	Long: `List past chat exchanges and generated diagrams as one merged,
reverse-chronological feed. Use --filter to match entries by text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		if err := app.Chat.LoadHistory(ctx); err != nil {
			return fmt.Errorf("failed to load chat history: %w", err)
		}
		if err := app.Diagrams.LoadAll(ctx); err != nil {
			return fmt.Errorf("failed to load diagrams: %w", err)
		}

		items := internal.FilterHistory(
			internal.CombineHistory(app.Chat.History(), app.Diagrams.Diagrams()),
			historyFilter,
		)
		if len(items) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		fmt.Println(historyHeaderStyle.Render(fmt.Sprintf("Recent activity (%d)", len(items))))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, item := range items {
			tag := chatTagStyle.Render("chat")
			if item.Type == internal.TypeDiagram {
				tag = diagramTagStyle.Render("diagram")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				tag,
				historyIDStyle.Render(item.ID),
				truncate(item.Text, 48),
				historyDateStyle.Render(formatWhen(item.Timestamp)),
			)
		}
		return w.Flush()
	},
}

// historyDeleteCmd represents the history delete subcommand
var historyDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		if err := app.Chat.DeleteEntry(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete chat: %w", err)
		}
		fmt.Println(okStyle.Render("Deleted."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.Flags().StringVar(&historyFilter, "filter", "", "Only show entries containing this text")
}

// truncate shortens s for one-line display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatWhen renders a timestamp compactly, omitting zero values.
func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
