package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/estax/internal/domain"
)

// keyMap holds the global and worksheet bindings. Printable keys are left to
// the amount editors, so every shortcut uses a control or function key.
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Back     key.Binding
	Compare  key.Binding
	Rounding key.Binding
	Strategy key.Binding
	Next     key.Binding
	Prev     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Compare:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "compare")),
	Rounding: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "dollars/cents")),
	Strategy: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "round once")),
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Left:     key.NewBinding(key.WithKeys("left")),
	Right:    key.NewBinding(key.WithKeys("right")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "enter")),
}

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case InputsLoadedMsg:
		m.inputPath = msg.Path
		m.setDocument(msg.Document)
		return m, nil

	case ComparisonCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.comparison = msg.Set
		m.previousScene = m.currentScene
		m.currentScene = SceneCompare
		return m, nil
	}

	return m.updateEditor(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	// An error stays on screen until any key dismisses it
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Help):
		if m.currentScene != SceneHelp {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneHelp} }
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		if m.currentScene != SceneWorksheet {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneWorksheet} }
		}
		return m, nil

	case key.Matches(msg, keys.Compare):
		return m, compareCmd(m.compareEngine, householdFor(m.inputs))
	}

	if m.currentScene != SceneWorksheet {
		return m, nil
	}
	return m.handleWorksheetKey(msg)
}

// handleWorksheetKey edits the focused field.
func (m Model) handleWorksheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		return m, m.setFocus(m.focus + 1)

	case key.Matches(msg, keys.Prev):
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, keys.Rounding):
		if m.engine.Rounding == domain.RoundDollars {
			m.engine.Rounding = domain.RoundCents
		} else {
			m.engine.Rounding = domain.RoundDollars
		}
		m.recompute()
		return m, nil

	case key.Matches(msg, keys.Strategy):
		if m.engine.Strategy == domain.RoundPerLine {
			m.engine.Strategy = domain.RoundOnce
		} else {
			m.engine.Strategy = domain.RoundPerLine
		}
		m.recompute()
		return m, nil
	}

	f := worksheetFields[m.focus]
	switch f.Kind {
	case kindYear:
		if m.rules == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			m.inputs.TaxYear = cycleYear(m.rules.AvailableYears(), m.inputs.TaxYear, -1)
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Toggle):
			m.inputs.TaxYear = cycleYear(m.rules.AvailableYears(), m.inputs.TaxYear, 1)
		default:
			return m, nil
		}
		m.recompute()
		return m, nil

	case kindStatus:
		switch {
		case key.Matches(msg, keys.Left):
			m.inputs.FilingStatus = cycleStatus(m.inputs.FilingStatus, -1)
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Toggle):
			m.inputs.FilingStatus = cycleStatus(m.inputs.FilingStatus, 1)
		default:
			return m, nil
		}
		m.recompute()
		return m, nil

	case kindFlag:
		if key.Matches(msg, keys.Toggle) {
			p := f.flag(&m.inputs)
			*p = !*p
			m.recompute()
		}
		return m, nil
	}

	return m.updateEditor(msg)
}

// updateEditor passes msg to the focused amount editor and recomputes when its
// text changed.
func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene != SceneWorksheet || worksheetFields[m.focus].Kind != kindAmount {
		return m, nil
	}
	before := m.editors[m.focus].Value()
	var cmd tea.Cmd
	m.editors[m.focus], cmd = m.editors[m.focus].Update(msg)
	if m.editors[m.focus].Value() != before {
		m.syncField(m.focus)
		m.recompute()
	}
	return m, cmd
}
