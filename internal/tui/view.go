package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/estax/internal/compare"
	"github.com/rgehrsitz/estax/internal/domain"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneWorksheet:
		content = m.renderWorksheet()
	case SceneCompare:
		content = m.renderCompare()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render(fmt.Sprintf("ESTAX - %d Form 1040-ES Estimated Tax Worksheet", m.inputs.TaxYear))
	crumb := m.currentScene.String()
	if m.inputPath != "" {
		crumb = fmt.Sprintf("%s / %s", crumb, m.inputPath)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	bindings := []string{
		formatShortcut(keys.Next),
		formatShortcut(keys.Rounding),
		formatShortcut(keys.Strategy),
		formatShortcut(keys.Compare),
		formatShortcut(keys.Help),
		formatShortcut(keys.Quit),
	}
	if m.currentScene != SceneWorksheet {
		bindings = []string{formatShortcut(keys.Back), formatShortcut(keys.Quit)}
	}
	status := strings.Join(bindings, "  ")
	return StatusBarStyle.Width(m.width).Render(status)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(b key.Binding) string {
	h := b.Help()
	return StatusKeyStyle.Render(h.Key) + " " + h.Desc
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)
	return m.renderApp(BorderStyle.Render(content))
}

// renderWorksheet renders the inputs panel beside the computed lines.
func (m Model) renderWorksheet() string {
	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		ActiveBorderStyle.Render(m.renderInputs()),
		BorderStyle.Render(m.renderLines()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels, m.renderDecision())
}

func (m Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(SelectedItemStyle.Render("INPUTS"))
	b.WriteString("\n")
	for i, f := range worksheetFields {
		cursor := "  "
		labelStyle := UnselectedItemStyle
		if i == m.focus {
			cursor = "> "
			labelStyle = SelectedItemStyle
		}
		b.WriteString(cursor)
		b.WriteString(FieldLabelStyle.Render(labelStyle.Render(f.Label)))
		b.WriteString(m.renderFieldValue(i))
		if msg, ok := m.fieldErrs[f.Key]; ok {
			b.WriteString(" " + ErrorStyle.Render(msg))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderFieldValue(i int) string {
	f := worksheetFields[i]
	switch f.Kind {
	case kindYear:
		return fmt.Sprintf("< %d >", m.inputs.TaxYear)
	case kindStatus:
		return fmt.Sprintf("< %s >", m.inputs.FilingStatus)
	case kindFlag:
		if *f.flag(&m.inputs) {
			return "[x]"
		}
		return "[ ]"
	default:
		return m.editors[i].View()
	}
}

func (m Model) renderLines() string {
	var b strings.Builder
	b.WriteString(SelectedItemStyle.Render("WORKSHEET LINES"))
	if m.result != nil {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s, %s", m.result.Rounding, m.engine.Strategy)))
	}
	b.WriteString("\n")
	if m.computeErr != nil {
		b.WriteString(ErrorStyle.Render(m.computeErr.Error()))
		return b.String()
	}
	if m.result == nil {
		return b.String()
	}
	for _, l := range domain.WorksheetLineOrder {
		style := LineValueStyle
		if m.lineChanged(l) {
			style = ChangedValueStyle
		}
		b.WriteString(LineLabelStyle.Render(l.Label()))
		b.WriteString(style.Render(m.result.FormatLine(l)))
		b.WriteString("  ")
		b.WriteString(SubtitleStyle.Render(shortExplainer(m.result.Explainers[l])))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// lineChanged reports whether line l differs from the previous computation.
func (m Model) lineChanged(l domain.Line) bool {
	if m.previous == nil || m.result == nil {
		return false
	}
	cur, _ := m.result.Value(l)
	prev, _ := m.previous.Value(l)
	return !cur.Equal(prev)
}

// shortExplainer drops the "Line N: " prefix and truncates the description.
func shortExplainer(s string) string {
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[i+2:]
	}
	const width = 44
	if len(s) > width {
		s = s[:width-3] + "..."
	}
	return s
}

func (m Model) renderDecision() string {
	if m.result == nil {
		return ""
	}
	var b strings.Builder
	if m.result.Decision.RequirePayments {
		b.WriteString(RequiredStyle.Render("Estimated payments required: YES"))
		b.WriteString(fmt.Sprintf("  each installment %s", m.result.FormatLine(domain.Line15)))
	} else {
		b.WriteString(NotRequiredStyle.Render("Estimated payments required: NO"))
		b.WriteString(fmt.Sprintf("  (%s)", m.result.Decision.Reason))
	}
	if len(m.result.MissingInputs) > 0 {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render("Missing: " + strings.Join(m.result.MissingInputs, ", ")))
	}
	for _, w := range m.result.Warnings {
		if w.Kind == domain.MissingInput {
			continue
		}
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(w.String()))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// renderCompare renders the strategy comparison table
func (m Model) renderCompare() string {
	if m.comparison == nil {
		return BorderStyle.Render("No comparison yet. Press ctrl+k on the worksheet.")
	}
	return BorderStyle.Render(strings.TrimRight((&compare.TableFormatter{}).Format(m.comparison), "\n"))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `ESTAX - Form 1040-ES Estimated Tax Worksheet

KEYBOARD SHORTCUTS:
  tab / down        Next field
  shift+tab / up    Previous field
  left / right      Change tax year or filing status
  space / enter     Toggle a yes/no field
  ctrl+r            Switch between whole dollars and cents
  ctrl+o            Switch between per-line and single rounding
  ctrl+k            Compare estimator strategies
  f1                Show this help
  esc               Back to the worksheet
  ctrl+c            Quit

EDITING:
  Amount fields accept digits, a decimal point, "$" and ",".
  Clearing a field makes the value absent; the worksheet lists
  absent values it needed under "Missing".
  Lines are recomputed after every keystroke; changed lines are
  highlighted.`
	return BorderStyle.Render(helpText)
}
