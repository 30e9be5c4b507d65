package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultURL = "http://localhost:5000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringUsername step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoading
	stepBrowsing
)

type model struct {
	api          *apiClient
	step         step
	username     string
	currentInput string
	tasks        []task
	due          int
	cursor       int
	message      string
	quitting     bool
}

type loginSuccessMsg struct{}
type tasksLoadedMsg struct {
	tasks []task
	due   int
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringUsername}
}

func (m model) Init() tea.Cmd {
	return nil
}

func login(api *apiClient, username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := api.login(username, password); err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{}
	}
}

func loadTasks(api *apiClient) tea.Cmd {
	return func() tea.Msg {
		tasks, err := api.tasks()
		if err != nil {
			return errMsg{err}
		}
		due, err := api.dueCount()
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks: tasks, due: due}
	}
}

// mutate runs fn and reloads the list afterwards.
func mutate(api *apiClient, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err}
		}
		return loadTasks(api)()
	}
}

func (m model) selected() (task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.step == stepEnteringUsername || m.step == stepEnteringPassword {
			return m.updateInput(msg)
		}
		if m.step != stepBrowsing {
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}

		case "r":
			m.message = ""
			return m, loadTasks(m.api)

		case " ", "x":
			if t, ok := m.selected(); ok {
				return m, mutate(m.api, func() error { return m.api.setCompleted(t.ID, !t.Completed) })
			}

		case "d":
			if t, ok := m.selected(); ok {
				m.message = successStyle.Render("✓ Deleted " + t.Title)
				return m, mutate(m.api, func() error { return m.api.deleteTask(t.ID) })
			}
		}

	case loginSuccessMsg:
		m.step = stepLoading
		m.message = successStyle.Render("✓ Logged in as " + m.username)
		return m, loadTasks(m.api)

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.due = msg.due
		m.step = stepBrowsing
		if m.cursor >= len(m.tasks) {
			m.cursor = max(len(m.tasks)-1, 0)
		}

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.step == stepLoggingIn {
			m.step = stepEnteringUsername
		}
	}

	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}
	case tea.KeyEnter:
		if m.currentInput == "" {
			return m, nil
		}
		switch m.step {
		case stepEnteringUsername:
			m.username = m.currentInput
			m.currentInput = ""
			m.step = stepEnteringPassword
		case stepEnteringPassword:
			password := m.currentInput
			m.currentInput = ""
			m.step = stepLoggingIn
			m.message = "Logging in..."
			return m, login(m.api, m.username, password)
		}
	case tea.KeyRunes, tea.KeySpace:
		m.currentInput += msg.String()
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Planner\n\n"))

	switch m.step {
	case stepEnteringUsername:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn, stepLoading:
		s.WriteString(m.message + "\n")

	case stepBrowsing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render(fmt.Sprintf("%d task(s), %d due\n\n", len(m.tasks), m.due)))

		for i, t := range m.tasks {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(renderTask(t))))
		}

		s.WriteString("\n↑/↓ move, space toggle done, d delete, r refresh, q quit\n")
	}

	return s.String()
}

func renderTask(t task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s (%s)", box, t.Title, t.Priority)
	if t.DueDate != nil {
		line += " due " + *t.DueDate
	}
	if t.Category != nil {
		line += " #" + *t.Category
	}
	if t.Completed {
		return doneStyle.Render(line)
	}
	return line
}

func main() {
	baseURL := os.Getenv("PLANNER_URL")
	if baseURL == "" {
		baseURL = defaultURL
	}
	p := tea.NewProgram(initialModel(newAPIClient(baseURL)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
