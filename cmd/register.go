package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var (
	strengthWeakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	strengthFairStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	strengthGoodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("112"))
	strengthStrongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a DevBook account",
	Long: `Create an account and sign in.

The password confirmation is checked locally before anything is sent;
on success you are logged in immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireAnonymous(ctx, app); err != nil {
			return err
		}

		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}

		password, err := promptSecret("Password: ")
		if err != nil {
			return err
		}
		fmt.Printf("Password strength: %s\n", renderStrength(internal.PasswordStrength(password)))

		confirm, err := promptSecret("Confirm password: ")
		if err != nil {
			return err
		}

		user, err := app.Session.Register(ctx, internal.Registration{
			Username:        username,
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println(okStyle.Render(fmt.Sprintf("Welcome, %s! You are now logged in.", user.Username)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

// renderStrength colors the strength label by score.
func renderStrength(strength int) string {
	label := fmt.Sprintf("%s (%d/100)", internal.PasswordStrengthLabel(strength), strength)
	switch {
	case strength <= 25:
		return strengthWeakStyle.Render(label)
	case strength <= 50:
		return strengthFairStyle.Render(label)
	case strength <= 75:
		return strengthGoodStyle.Render(label)
	default:
		return strengthStrongStyle.Render(label)
	}
}
