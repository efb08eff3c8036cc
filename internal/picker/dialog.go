package picker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogPicker asks for a directory in a full-screen text input with
// tab-cycled directory completion.
type DialogPicker struct {
	recentPaths []string
	programOpts []tea.ProgramOption
}

// NewDialogPicker creates a dialog picker seeded with recent paths.
func NewDialogPicker(recentPaths []string) *DialogPicker {
	return &DialogPicker{
		recentPaths: recentPaths,
		programOpts: []tea.ProgramOption{tea.WithAltScreen(), tea.WithOutput(os.Stderr)},
	}
}

// PromptForDirectory runs the dialog until the user confirms a directory,
// cancels, or ctx is done.
func (p *DialogPicker) PromptForDirectory(ctx context.Context, prompt string) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.programOpts...)
	program := tea.NewProgram(newDialogModel(prompt, p.recentPaths), opts...)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("run directory dialog: %w", err)
	}

	m, ok := final.(dialogModel)
	if !ok || m.cancelled || !m.submitted {
		return "", ErrCancelled
	}
	return m.Value(), nil
}

// dialogStyles defines the visual appearance of the dialog.
type dialogStyles struct {
	Box        lipgloss.Style
	Title      lipgloss.Style
	Input      lipgloss.Style
	Suggestion lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
}

func defaultDialogStyles() dialogStyles {
	purple := lipgloss.Color("#7C3AED")
	cyan := lipgloss.Color("#06B6D4")
	red := lipgloss.Color("#F38BA8")
	surface := lipgloss.Color("#1E1E2E")
	textMuted := lipgloss.Color("#6C7086")

	return dialogStyles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan).
			Background(surface).
			Padding(0, 1).
			MarginBottom(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),
		Suggestion: lipgloss.NewStyle().
			Foreground(textMuted).
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true).
			PaddingLeft(2),
		Error: lipgloss.NewStyle().
			Foreground(red).
			MarginTop(1),
		Help: lipgloss.NewStyle().
			Foreground(textMuted).
			MarginTop(1),
	}
}

// dialogModel is the bubbletea model behind DialogPicker.
type dialogModel struct {
	title           string
	input           textinput.Model
	completer       *PathCompleter
	suggestions     []string
	suggestionIndex int
	showSuggestions bool
	errMsg          string
	submitted       bool
	cancelled       bool
	width           int
	height          int
	styles          dialogStyles
}

func newDialogModel(title string, recentPaths []string) dialogModel {
	ti := textinput.New()
	ti.Placeholder = "~/src/owner/repo"
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Focus()

	return dialogModel{
		title:     title,
		input:     ti,
		completer: NewPathCompleter(recentPaths),
		styles:    defaultDialogStyles(),
	}
}

// Init implements tea.Model.
func (m dialogModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if !m.showSuggestions {
				m.refreshSuggestions()
				m.showSuggestions = len(m.suggestions) > 0
				if m.showSuggestions {
					m.applySuggestion()
				}
				return m, nil
			}
			step := 1
			if msg.String() == "shift+tab" {
				step = len(m.suggestions) - 1
			}
			m.suggestionIndex = (m.suggestionIndex + step) % len(m.suggestions)
			m.applySuggestion()
			return m, nil

		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.errMsg = "Enter the directory of your local clone"
				return m, nil
			}
			if !IsDirectory(value) {
				m.errMsg = "Not a directory: " + value
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit

		case "esc":
			if m.showSuggestions {
				// First Esc hides suggestions
				m.showSuggestions = false
				m.suggestions = nil
				return m, nil
			}
			m.cancelled = true
			return m, tea.Quit

		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		// Typing invalidates the previous error and completion list.
		m.errMsg = ""
		m.showSuggestions = false
		m.suggestions = nil
	}
	return m, cmd
}

func (m *dialogModel) refreshSuggestions() {
	m.suggestions = m.completer.Complete(m.input.Value())
	m.suggestionIndex = 0
}

func (m *dialogModel) applySuggestion() {
	m.input.SetValue(m.suggestions[m.suggestionIndex])
	m.input.CursorEnd()
}

// View implements tea.Model.
func (m dialogModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.styles.Input.Render(m.input.View()))
	b.WriteString("\n")

	if m.showSuggestions {
		maxShow := min(len(m.suggestions), 5)
		for j := 0; j < maxShow; j++ {
			if j == m.suggestionIndex {
				b.WriteString(m.styles.Selected.Render("→ " + m.suggestions[j]))
			} else {
				b.WriteString(m.styles.Suggestion.Render("  " + m.suggestions[j]))
			}
			b.WriteString("\n")
		}
		if len(m.suggestions) > maxShow {
			b.WriteString(m.styles.Suggestion.Render("  ..."))
			b.WriteString("\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("Tab: Complete • Enter: Confirm • Esc: Cancel"))

	content := m.styles.Box.Render(b.String())
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// Value returns the confirmed directory, with ~ expanded.
func (m dialogModel) Value() string {
	return ExpandPath(strings.TrimSpace(m.input.Value()))
}
