package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mihirvv/jobassist/internal/model"
)

var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	formQuestionStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 0, 0, 2)

	formProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 0, 2)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 0, 0, 2)
)

// formQuestion is one prompt in the preferences intake sequence.
type formQuestion struct {
	prompt   string
	required bool
	numeric  bool // 1-10 answers
	assign   func(p *model.Preferences, answer string)
}

func preferenceQuestions() []formQuestion {
	return []formQuestion{
		{
			prompt:   "How interested are you in this role? (1-10)",
			required: true,
			numeric:  true,
			assign: func(p *model.Preferences, a string) {
				p.InterestLevel, _ = strconv.Atoi(a)
			},
		},
		{
			prompt:   "What motivates you to apply for this position?",
			required: true,
			assign:   func(p *model.Preferences, a string) { p.Motivation = a },
		},
		{
			prompt:   "Which of your experiences are most relevant here?",
			required: true,
			assign:   func(p *model.Preferences, a string) { p.RelevantExperience = a },
		},
		{
			prompt: "How does this role fit your career goals?",
			assign: func(p *model.Preferences, a string) { p.CareerGoals = a },
		},
		{
			prompt: "What do you know about the company?",
			assign: func(p *model.Preferences, a string) { p.CompanyKnowledge = a },
		},
		{
			prompt: "Any concerns about the role?",
			assign: func(p *model.Preferences, a string) { p.Concerns = a },
		},
		{
			prompt: "Anything else the application should mention?",
			assign: func(p *model.Preferences, a string) { p.AdditionalInfo = a },
		},
	}
}

type formModel struct {
	posting   model.JobPosting
	questions []formQuestion
	current   int
	input     textinput.Model
	prefs     model.Preferences
	errText   string
	cancelled bool
	done      bool
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			return m.submitAnswer()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m formModel) submitAnswer() (tea.Model, tea.Cmd) {
	q := m.questions[m.current]
	answer := strings.TrimSpace(m.input.Value())

	if answer == "" && q.required {
		m.errText = "an answer is required here"
		return m, nil
	}
	if q.numeric && answer != "" {
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > 10 {
			m.errText = "enter a number between 1 and 10"
			return m, nil
		}
	}

	q.assign(&m.prefs, answer)
	m.errText = ""
	m.current++

	if m.current >= len(m.questions) {
		m.done = true
		return m, tea.Quit
	}

	m.input.SetValue("")
	return m, nil
}

func (m formModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	title := fmt.Sprintf("Tell me about this application: %s at %s", m.posting.Title, m.posting.Company)
	s := formTitleStyle.Render(title) + "\n"
	s += formProgressStyle.Render(fmt.Sprintf("question %d of %d", m.current+1, len(m.questions))) + "\n\n"
	s += formQuestionStyle.Render(m.questions[m.current].prompt) + "\n\n"
	s += "  " + m.input.View() + "\n"

	if m.errText != "" {
		s += formErrorStyle.Render(m.errText) + "\n"
	}

	hint := "enter next  esc cancel"
	if !m.questions[m.current].required {
		hint = "enter next (blank to skip)  esc cancel"
	}
	s += formHintStyle.Render(hint)
	return s
}

// RunPreferencesForm walks the user through the application questions one at
// a time. Returns ok=false if the user cancelled.
func RunPreferencesForm(posting model.JobPosting) (model.Preferences, bool, error) {
	input := textinput.New()
	input.Placeholder = "type your answer"
	input.Focus()
	input.CharLimit = 2000
	input.Width = 72

	m := formModel{
		posting:   posting,
		questions: preferenceQuestions(),
		input:     input,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return model.Preferences{}, false, err
	}
	final := result.(formModel)
	if final.cancelled {
		return model.Preferences{}, false, nil
	}
	return final.prefs, true, nil
}
