package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mihirvv/jobassist/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Local generation can be slow on modest hardware; give it plenty of room.
const generateTimeout = 10 * time.Minute

type generateDoneMsg struct {
	docs []model.Document
	err  error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label      string
	generateFn func(ctx context.Context) ([]model.Document, error)
	frame      int
	result     []model.Document
	err        error
	done       bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doGenerate(), m.tick())
}

func (m loaderModel) doGenerate() tea.Cmd {
	generateFn := m.generateFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		docs, err := generateFn(ctx)
		return generateDoneMsg{docs: docs, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generateDoneMsg:
		m.result = msg.docs
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s %s\n", spinner, m.label)
}

// RunGenerate shows a spinner while documents are generated. It renders
// inline (no alt screen).
func RunGenerate(label string, generateFn func(ctx context.Context) ([]model.Document, error)) ([]model.Document, error) {
	m := loaderModel{
		label:      label,
		generateFn: generateFn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
