package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var diagramOutput string

// diagramsCmd represents the diagrams command
var diagramsCmd = &cobra.Command{
	Use:   "diagrams",
	Short: "Manage generated diagrams",
	Long: `List, view, generate, and delete diagrams stored on the backend.

'show' prints the normalized mermaid source (fence markers stripped),
ready to paste into any mermaid renderer; --output saves it as a .mmd
file instead.`,
}

// diagramsListCmd represents the diagrams list subcommand
var diagramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your diagrams",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		if err := app.Diagrams.LoadAll(ctx); err != nil {
			return fmt.Errorf("failed to load diagrams: %w", err)
		}

		diagrams := app.Diagrams.Diagrams()
		if len(diagrams) == 0 {
			fmt.Println("No diagrams yet. Generate one with 'devbook send --type diagram'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, d := range diagrams {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				historyIDStyle.Render(d.ID),
				truncate(d.Description, 48),
				historyDateStyle.Render(formatWhen(d.EffectiveTimestamp())),
			)
		}
		return w.Flush()
	},
}

// diagramsShowCmd represents the diagrams show subcommand
var diagramsShowCmd = &cobra.Command{
	Use:   "show <diagram-id>",
	Short: "Show a diagram's mermaid source",
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

		d, err := app.Diagrams.SelectByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch diagram: %w", err)
		}

		source := app.Diagrams.Current()
		if source == "" {
			return fmt.Errorf("diagram %s has no content", d.ID)
		}

		if diagramOutput != "" {
			if err := os.WriteFile(diagramOutput, []byte(source+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", diagramOutput, err)
			}
			fmt.Println(okStyle.Render("Saved " + diagramOutput))
			return nil
		}

		if d.Description != "" {
			fmt.Println(hintStyle.Render(d.Description))
		}
		fmt.Println(source)
		return nil
	},
}

// diagramsDeleteCmd represents the diagrams delete subcommand
var diagramsDeleteCmd = &cobra.Command{
	Use:   "delete <diagram-id>",
	Short: "Delete a diagram",
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

		if err := app.Diagrams.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete diagram: %w", err)
		}
		fmt.Println(okStyle.Render("Deleted."))
		return nil
	},
}

// diagramsSketchCmd represents the diagrams sketch subcommand
var diagramsSketchCmd = &cobra.Command{
	Use:   "sketch <description>",
	Short: "Sketch a quick flowchart locally, without the backend",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(internal.SketchDiagram(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagramsCmd)
	diagramsCmd.AddCommand(diagramsListCmd)
	diagramsCmd.AddCommand(diagramsShowCmd)
	diagramsCmd.AddCommand(diagramsDeleteCmd)
	diagramsCmd.AddCommand(diagramsSketchCmd)
	diagramsShowCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Save the mermaid source to this file")
}
