package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var sendType string

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Send a one-shot message to the assistant",
	Long: `Send a single message and print the reply.

With --type diagram the text is treated as a diagram description and
the generated mermaid source is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		content := strings.Join(args, " ")
		reply, err := app.Chat.SendMessage(ctx, content, sendType)
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}

		fmt.Println(renderMarkdown(reply.Content))
		if reply.Diagram != "" {
			fmt.Println(reply.Diagram)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendType, "type", internal.TypeChat, "Message type: chat or diagram")
}

// renderMarkdown renders assistant markdown for the terminal, falling
// back to the raw text when rendering fails.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
