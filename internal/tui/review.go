package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mihirvv/jobassist/internal/model"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	reviewBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	reviewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(0, 1)

	reviewMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	reviewBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	reviewStatusStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236"))
)

type reviewModel struct {
	docs       []model.Document
	postingURL string
	current    int
	viewport   viewport.Model
	width      int
	height     int
	ready      bool
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Tab row (1) + border (2) + status bar (1).
		vpHeight := max(m.height-4, 5)
		if !m.ready {
			m.viewport = viewport.New(m.width-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width - 4
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderDocument())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchDoc(1)
			return m, nil
		case "shift+tab", "left", "h":
			m.switchDoc(-1)
			return m, nil
		case "o":
			if m.postingURL != "" {
				openURL(m.postingURL)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) switchDoc(delta int) {
	if len(m.docs) == 0 {
		return
	}
	m.current = clamp(m.current+delta, 0, len(m.docs)-1)
	m.viewport.SetContent(m.renderDocument())
	m.viewport.SetYOffset(0)
}

func (m reviewModel) renderDocument() string {
	if len(m.docs) == 0 {
		return "  (no documents)"
	}
	doc := m.docs[m.current]
	wrapWidth := max(m.width-8, 20)

	var b strings.Builder
	b.WriteString(reviewTitleStyle.Render(doc.Title) + "\n")
	if doc.Model != "" {
		b.WriteString(reviewMetaStyle.Render(fmt.Sprintf("  generated by %s", doc.Model)) + "\n")
	}
	b.WriteByte('\n')
	b.WriteString(reviewBodyStyle.Render(wordWrap(doc.Content, wrapWidth)) + "\n")
	return b.String()
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var tabs []string
	for i, doc := range m.docs {
		label := docLabel(doc.Type)
		if i == m.current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	content := reviewBorderStyle.Width(m.width - 2).Render(m.viewport.View())

	statusText := " tab/←/→ switch document  ↑/↓ scroll  q quit"
	if m.postingURL != "" {
		statusText = " tab/←/→ switch document  ↑/↓ scroll  o open posting  q quit"
	}
	statusBar := reviewStatusStyle.Width(m.width).Render(statusText)

	return tabRow + "\n" + content + "\n" + statusBar
}

func docLabel(docType string) string {
	switch docType {
	case "job_analysis":
		return "Analysis"
	case "cover_letter":
		return "Cover Letter"
	case "motivation_letter":
		return "Motivation"
	default:
		words := strings.Split(strings.ReplaceAll(docType, "_", " "), " ")
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		return strings.Join(words, " ")
	}
}

// RunDocumentReview opens the generated documents in a tabbed full-screen
// viewer.
func RunDocumentReview(docs []model.Document, postingURL string) error {
	m := reviewModel{
		docs:       docs,
		postingURL: postingURL,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func wordWrap(text string, width int) string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) <= width {
				line += " " + w
			} else {
				lines = append(lines, line)
				line = w
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}
