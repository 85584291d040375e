package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var (
	booksNiche      string
	booksDifficulty string
)

// booksCmd represents the books command
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the book catalog",
}

// booksListCmd represents the books list subcommand
var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		params := url.Values{}
		if booksNiche != "" {
			params.Set("niche", booksNiche)
		}
		books, err := app.Client.Books(ctx, params)
		if err != nil {
			app.Session.HandleAuthError(err)
			return fmt.Errorf("failed to list books: %w", err)
		}
		printBooks(books)
		return nil
	},
}

// booksSearchCmd represents the books search subcommand
var booksSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search books by free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		books, err := app.Client.SearchBooks(ctx, strings.Join(args, " "))
		if err != nil {
			app.Session.HandleAuthError(err)
			return fmt.Errorf("search failed: %w", err)
		}
		printBooks(books)
		return nil
	},
}

// booksRecommendCmd represents the books recommend subcommand
var booksRecommendCmd = &cobra.Command{
	Use:   "recommend <niche>",
	Short: "Get recommendations for a niche",
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

		books, err := app.Client.RecommendBooks(ctx, args[0], booksDifficulty)
		if err != nil {
			app.Session.HandleAuthError(err)
			return fmt.Errorf("recommendation failed: %w", err)
		}
		printBooks(books)
		return nil
	},
}

func printBooks(books []internal.Book) {
	if len(books) == 0 {
		fmt.Println("No books found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			historyIDStyle.Render(b.ID),
			truncate(b.Title, 40),
			b.Author,
			b.Difficulty,
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksSearchCmd)
	booksCmd.AddCommand(booksRecommendCmd)
	booksListCmd.Flags().StringVar(&booksNiche, "niche", "", "Filter by niche")
	booksRecommendCmd.Flags().StringVar(&booksDifficulty, "difficulty", "", "Preferred difficulty")
}
