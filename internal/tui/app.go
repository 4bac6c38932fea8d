package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/see/internal/config"
)

// Model is the bubbletea model of the configuration editor. Each section is
// written through SaveFunc as soon as its form is submitted.
type Model struct {
	values     *ConfigValues
	cursor     int
	form       *huh.Form
	section    string
	status     string
	err        error
	saveFunc   func(*config.Config) error
	savedPath  string
	accessible bool
}

// Options configures the editor
type Options struct {
	Config     *config.Config
	SaveFunc   func(*config.Config) error
	SavedPath  string // shown after a successful save
	Accessible bool
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return Model{
		values:     FromConfig(cfg),
		saveFunc:   opts.SaveFunc,
		savedPath:  opts.SavedPath,
		accessible: opts.Accessible,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateMenu(key)
		}
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m.save(), nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(Categories)-1 {
			m.cursor++
		}
	case "enter":
		return m.open(Categories[m.cursor].ID)
	}
	return m, nil
}

func (m Model) open(id string) (tea.Model, tea.Cmd) {
	m.section = id
	m.status, m.err = "", nil
	m.form = GetFormForCategory(id, m.values)
	if m.accessible {
		m.form = m.form.WithAccessible(true).WithTheme(GetAccessibleTheme())
	}
	return m, m.form.Init()
}

// save validates every value, not just the submitted section
func (m Model) save() Model {
	cfg, err := m.values.ToConfig()
	if err == nil && m.saveFunc != nil {
		err = m.saveFunc(cfg)
	}
	if err != nil {
		m.err = err
		return m
	}

	m.status = GetCategoryByID(m.section).Name + " saved"
	if m.savedPath != "" {
		m.status += " to " + m.savedPath
	}
	return m
}

func (m Model) View() string {
	if m.form != nil {
		return TitleStyle.Render("see configuration") + "\n\n" + m.form.View()
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render("see configuration"))
	s.WriteString("\n\n")

	for i, cat := range Categories {
		if i == m.cursor {
			s.WriteString(SelectedStyle.Render("> " + cat.Name))
			s.WriteString(DescriptionStyle.Render("  " + cat.Description))
		} else {
			s.WriteString(UnselectedStyle.Render("  " + cat.Name))
		}
		s.WriteString("\n")
	}
	s.WriteString("\n")

	switch {
	case m.err != nil:
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	case m.status != "":
		s.WriteString(SuccessStyle.Render(m.status))
		s.WriteString("\n\n")
	}

	s.WriteString(HelpStyle.Render("↑/↓ navigate • enter edit • q quit"))
	return s.String()
}

// Run starts the editor in the alternate screen
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
