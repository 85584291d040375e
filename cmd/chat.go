package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/devbook/internal"
	"github.com/spf13/cobra"
)

var (
	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	chatModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	diagramModeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	chatErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	diagramPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("135")).
				Padding(0, 1)

	chatHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Open the interactive chat interface.

Keys:
  enter    send the input
  tab      toggle chat / diagram mode
  ctrl+d   toggle the current-diagram pane
  ctrl+l   clear the conversation
  esc      quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := requireSession(ctx, app); err != nil {
			return err
		}

		model := newChatModel(ctx, app)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("chat interface failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// sendDoneMsg reports the completion of one send/receive cycle.
type sendDoneMsg struct {
	err error
}

// repaintMsg asks for a transcript re-render while a send is in
// flight, so the optimistic user message shows up right away.
type repaintMsg struct{}

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	ctx context.Context
	app *internal.App

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	mode        string
	showDiagram bool
	sending     bool
	ready       bool
	width       int
	height      int
}

func newChatModel(ctx context.Context, app *internal.App) *chatModel {
	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &chatModel{
		ctx:     ctx,
		app:     app,
		input:   input,
		spinner: sp,
		mode:    internal.TypeChat,
	}
}

// Init implements tea.Model.
func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.toggleMode()

		case "ctrl+d":
			m.showDiagram = !m.showDiagram
			m.layout()
			m.refreshViewport()

		case "ctrl+l":
			m.app.Chat.ClearChat()
			m.refreshViewport()

		case "enter":
			if m.sending {
				break
			}
			content := strings.TrimSpace(m.input.Value())
			if content == "" {
				break
			}
			m.input.SetValue("")
			m.sending = true
			cmd := m.sendCmd(content, m.mode)
			// Show the optimistic user message as soon as the send
			// starts.
			return m, tea.Batch(cmd, m.spinner.Tick, m.refreshSoon())
		}

	case sendDoneMsg:
		m.sending = false
		m.refreshViewport()
		m.viewport.GotoBottom()

	case repaintMsg:
		m.refreshViewport()
		if m.sending {
			return m, tea.Batch(m.spinner.Tick, m.refreshSoon())
		}

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// sendCmd runs the send/receive cycle off the UI loop.
func (m *chatModel) sendCmd(content, msgType string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Chat.SendMessage(m.ctx, content, msgType)
		return sendDoneMsg{err: err}
	}
}

// refreshSoon repaints the transcript shortly after a send starts so
// the optimistic append is visible while the request is in flight.
func (m *chatModel) refreshSoon() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return repaintMsg{}
	})
}

func (m *chatModel) toggleMode() {
	if m.mode == internal.TypeChat {
		m.mode = internal.TypeDiagram
		m.input.Placeholder = "Describe your diagram (e.g. 'Login flow with authentication')"
	} else {
		m.mode = internal.TypeChat
		m.input.Placeholder = "Ask a question..."
	}
}

// layout recomputes pane sizes and the markdown renderer after a
// resize or pane toggle.
func (m *chatModel) layout() {
	contentWidth := m.width
	if m.showDiagram {
		contentWidth = m.width / 2
	}
	if contentWidth < 20 {
		contentWidth = 20
	}

	viewportHeight := m.height - 4
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}
	m.input.Width = m.width - 4

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(contentWidth-2),
	)
	if err == nil {
		m.renderer = renderer
	}
}

// refreshViewport re-renders the transcript into the viewport.
func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *chatModel) renderTranscript() string {
	messages := m.app.Chat.Messages()
	if len(messages) == 0 {
		return chatHelpStyle.Render("Welcome to DevBook. Ask me about programming books or request a diagram!")
	}

	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case internal.RoleUser:
			b.WriteString(userLabelStyle.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
		default:
			b.WriteString(assistantLabelStyle.Render("Assistant") + "\n")
			b.WriteString(m.renderAssistant(msg) + "\n\n")
		}
	}
	return b.String()
}

func (m *chatModel) renderAssistant(msg internal.Message) string {
	content := msg.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(out, "\n")
		}
	}
	if msg.Diagram != "" && !m.showDiagram {
		content += "\n" + chatHelpStyle.Render("(diagram ready; press ctrl+d to view)")
	}
	return content
}

// View implements tea.Model.
func (m *chatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	mode := chatModeStyle.Render("chat")
	if m.mode == internal.TypeDiagram {
		mode = diagramModeStyle.Render("diagram")
	}
	header := chatTitleStyle.Render("DevBook") + " mode: " + mode

	body := m.viewport.View()
	if m.showDiagram {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.diagramPane())
	}

	status := chatHelpStyle.Render("enter send · tab mode · ctrl+d diagram · ctrl+l clear · esc quit")
	if m.sending {
		status = m.spinner.View() + " Thinking..."
	}
	if err := m.app.Chat.Err(); err != nil {
		status = chatErrStyle.Render("Error: " + err.Error())
	}

	return header + "\n" + body + "\n" + status + "\n" + m.input.View()
}

// diagramPane renders the current diagram, if any.
func (m *chatModel) diagramPane() string {
	width := m.width - m.viewport.Width - 4
	if width < 10 {
		width = 10
	}

	current := m.app.Diagrams.Current()
	if current == "" {
		current = "No diagram to display.\nUse the diagram mode to generate one."
	}
	return diagramPaneStyle.Width(width).Height(m.viewport.Height - 2).Render(current)
}
