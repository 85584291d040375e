package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	apiURL  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

var (
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devbook",
	Short: "Chat with the DevBook assistant from your terminal",
	Long: `A terminal client for the DevBook API: chat with the assistant,
generate mermaid diagrams, and browse your history and the book catalog.

Features:
  • Interactive chat with chat and diagram modes
  • Diagram generation with a live current-diagram pane
  • Combined chat + diagram history with free-text filtering
  • Transcript export in multiple formats (JSONL, Markdown, YAML, JSON)
  • Book catalog search and recommendations

Quick Start:
  devbook login                 # Sign in (or 'devbook register')
  devbook chat                  # Start an interactive conversation
  devbook send "explain maps"   # One-shot question
  devbook history               # Recent chats and diagrams`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "DevBook API base URL (overrides config and DEVBOOK_API_URL)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// cliNavigator interprets navigation effects for a terminal: a move to
// login prints a sign-in hint, a move home confirms the session.
type cliNavigator struct{}

func (cliNavigator) NavigateTo(target string) {
	switch target {
	case internal.NavLogin:
		fmt.Fprintln(os.Stderr, hintStyle.Render("Signed out. Run 'devbook login' to start a new session."))
	case internal.NavHome:
		// Login confirmation is printed by the command itself.
	}
}

// newApp builds the application state shared by every command.
func newApp() (*internal.App, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}
	return internal.NewApp(cfg, cliNavigator{}), nil
}

// requireSession is the route-guard analog: commands that need a
// session refuse to start without a valid one.
func requireSession(ctx context.Context, app *internal.App) error {
	if err := app.Session.CheckAuth(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'devbook login' first")
	}
	return nil
}

// requireAnonymous guards the auth commands: an authenticated user is
// pointed home instead of signing in again.
func requireAnonymous(ctx context.Context, app *internal.App) error {
	if err := app.Session.CheckAuth(ctx); err != nil {
		return err
	}
	if app.Session.IsAuthenticated() {
		user := app.Session.User()
		return fmt.Errorf("already logged in as %s; run 'devbook logout' first", user.Username)
	}
	return nil
}
