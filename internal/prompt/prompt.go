// Package prompt asks for Mite credentials interactively.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sdpower/mite-go/internal/config"
)

var ErrCancelled = errors.New("prompt cancelled")

type Options struct {
	Initial config.Credentials
	NoColor bool
	Input   io.Reader
	Output  io.Writer
}

const (
	fieldAccount = iota
	fieldAPIKey
)

type model struct {
	inputs    []textinput.Model
	focus     int
	done      bool
	cancelled bool
	errMsg    string
	noColor   bool
}

func newModel(opts Options) model {
	account := textinput.New()
	account.Placeholder = "your-account"
	account.Prompt = "Account: "
	account.CharLimit = 64
	account.SetValue(opts.Initial.Account)

	key := textinput.New()
	key.Placeholder = "api key"
	key.Prompt = "API key: "
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.SetValue(opts.Initial.APIKey)

	m := model{
		inputs:  []textinput.Model{account, key},
		noColor: opts.NoColor,
	}
	if opts.Initial.Account != "" && opts.Initial.APIKey == "" {
		m.focus = fieldAPIKey
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			next := (m.focus + 1) % len(m.inputs)
			return m.setFocus(next), nil

		case tea.KeyEnter:
			if strings.TrimSpace(m.inputs[m.focus].Value()) == "" {
				m.errMsg = "value is required"
				return m, nil
			}
			m.errMsg = ""
			if m.focus < len(m.inputs)-1 {
				return m.setFocus(m.focus + 1), nil
			}
			if empty := m.firstEmpty(); empty >= 0 {
				m.errMsg = "value is required"
				return m.setFocus(empty), nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) setFocus(i int) model {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m model) firstEmpty() int {
	for i, in := range m.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			return i
		}
	}
	return -1
}

func (m model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	if m.noColor {
		titleStyle = lipgloss.NewStyle()
		helpStyle = lipgloss.NewStyle()
		errStyle = lipgloss.NewStyle()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Mite credentials"))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter to confirm, tab to switch, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m model) credentials() config.Credentials {
	return config.Credentials{
		Account: strings.TrimSpace(m.inputs[fieldAccount].Value()),
		APIKey:  strings.TrimSpace(m.inputs[fieldAPIKey].Value()),
	}
}

// Credentials runs the prompt until both fields are filled in or the user
// cancels.
func Credentials(ctx context.Context, opts Options) (config.Credentials, error) {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(newModel(opts), progOpts...)
	final, err := p.Run()
	if err != nil {
		return config.Credentials{}, fmt.Errorf("credential prompt failed: %w", err)
	}

	m, ok := final.(model)
	if !ok || m.cancelled || !m.done {
		return config.Credentials{}, ErrCancelled
	}
	return m.credentials(), nil
}
