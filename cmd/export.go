package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/iksnae/devbook/internal"
	"github.com/iksnae/devbook/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your history as a transcript",
	Long: `Export your chat history and diagrams to a transcript file in
various formats (jsonl, md, yaml, json).

Without --output the transcript is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if err := app.Chat.LoadHistory(ctx); err != nil {
			return fmt.Errorf("failed to load chat history: %w", err)
		}
		if err := app.Diagrams.LoadAll(ctx); err != nil {
			return fmt.Errorf("failed to load diagrams: %w", err)
		}

		transcript := buildTranscript(app)

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}

		if err := exporter.Export(transcript, out); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if exportOutput != "" {
			fmt.Println(okStyle.Render("Exported " + exportOutput))
		}
		return nil
	},
}

// buildTranscript flattens history entries and diagrams into one
// chronological message sequence.
func buildTranscript(app *internal.App) *internal.Transcript {
	var messages []internal.Message

	for _, e := range app.Chat.History() {
		msgType := e.Type
		if msgType == "" {
			msgType = internal.TypeChat
		}
		messages = append(messages, internal.Message{
			ID:        e.ID,
			Role:      internal.RoleUser,
			Content:   e.DisplayText(),
			Type:      msgType,
			Timestamp: e.CreatedAt,
		})
	}
	for _, d := range app.Diagrams.Diagrams() {
		messages = append(messages, internal.Message{
			ID:        d.ID,
			Role:      internal.RoleAssistant,
			Content:   d.Description,
			Type:      internal.TypeDiagram,
			Diagram:   internal.NormalizeDiagram(&d),
			Timestamp: d.EffectiveTimestamp(),
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	transcript := &internal.Transcript{
		ExportedAt: time.Now(),
		Messages:   messages,
	}
	if user := app.Session.User(); user != nil {
		transcript.User = user.Username
	}
	return transcript
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, jsonl, md, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}
