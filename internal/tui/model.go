package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/compare"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Rules and engines
	rules         *domain.RuleBook
	engine        *calculation.WorksheetEngine
	compareEngine *compare.CompareEngine

	// Worksheet being edited
	inputPath string
	inputs    domain.WorksheetInputs
	editors   []textinput.Model
	focus     int
	fieldErrs map[string]string

	// Latest computation; previous is kept to highlight changed lines
	result     *domain.WorksheetResult
	previous   *domain.WorksheetResult
	computeErr error

	comparison *compare.ComparisonSet

	// Error state
	err error
}

// NewModel creates a model editing a blank worksheet for the latest configured
// year. When inputPath is set, Init loads it.
func NewModel(rules *domain.RuleBook, inputPath string) Model {
	m := Model{
		currentScene:  SceneWorksheet,
		rules:         rules,
		engine:        calculation.NewWorksheetEngine(rules),
		compareEngine: compare.NewCompareEngine(rules),
		inputPath:     inputPath,
		fieldErrs:     make(map[string]string),
		width:         100,
		height:        30,
	}
	m.inputs = domain.WorksheetInputs{
		FilingStatus:         domain.Single,
		UseStandardDeduction: true,
	}
	if rules != nil {
		if years := rules.AvailableYears(); len(years) > 0 {
			m.inputs.TaxYear = years[len(years)-1]
		}
	}

	m.editors = make([]textinput.Model, len(worksheetFields))
	for i, f := range worksheetFields {
		ti := textinput.New()
		ti.Placeholder = "-"
		ti.CharLimit = 14
		ti.Width = 14
		ti.Prompt = ""
		if f.Kind == kindAmount {
			ti.SetValue(amountText(*f.amount(&m.inputs)))
		}
		m.editors[i] = ti
	}
	m.recompute()
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.inputPath == "" {
		return nil
	}
	return loadInputsCmd(m.inputPath)
}

// loadInputsCmd returns a command that loads a worksheet document
func loadInputsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := config.NewInputParser().LoadWorksheet(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return InputsLoadedMsg{Path: path, Document: doc}
	}
}

// compareCmd returns a command that compares the estimator strategies for hs
func compareCmd(engine *compare.CompareEngine, hs domain.HouseholdSummary) tea.Cmd {
	return func() tea.Msg {
		set, err := engine.Compare(context.Background(), hs, compare.CompareOptions{})
		return ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// setDocument replaces the edited inputs with a loaded document.
func (m *Model) setDocument(doc *config.WorksheetDocument) {
	m.inputs = doc.WorksheetInputs
	m.engine.Rounding = doc.Rounding
	m.fieldErrs = make(map[string]string)
	for i, f := range worksheetFields {
		if f.Kind == kindAmount {
			m.editors[i].SetValue(amountText(*f.amount(&m.inputs)))
		}
	}
	m.previous = nil
	m.recompute()
}

// syncField parses the editor of field i into the inputs.
func (m *Model) syncField(i int) {
	f := worksheetFields[i]
	if f.Kind != kindAmount {
		return
	}
	v, err := parseAmount(m.editors[i].Value())
	if err != nil {
		m.fieldErrs[f.Key] = err.Error()
		v = nil
	} else {
		delete(m.fieldErrs, f.Key)
	}
	*f.amount(&m.inputs) = v
}

// recompute runs the worksheet over the current inputs.
func (m *Model) recompute() {
	if m.rules == nil {
		m.computeErr = &domain.ConfigurationError{Reason: "rule book not loaded"}
		return
	}
	res, err := m.engine.Compute(m.inputs)
	if err != nil {
		m.computeErr = err
		return
	}
	m.computeErr = nil
	m.previous = m.result
	m.result = res
}

// setFocus moves the cursor to field i, focusing its editor when it has one.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(worksheetFields)
	i = ((i % n) + n) % n
	m.editors[m.focus].Blur()
	m.focus = i
	if worksheetFields[i].Kind == kindAmount {
		return m.editors[i].Focus()
	}
	return nil
}

// householdFor summarizes the edited worksheet for the strategy comparison.
// Business expenses are the part of gross income that is not SE profit.
func householdFor(in domain.WorksheetInputs) domain.HouseholdSummary {
	gross := domain.Deref(in.ProjectedGrossIncome)
	expenses := decimal.Zero
	if in.SelfEmploymentNetProfit != nil {
		expenses = domain.MaxZero(gross.Sub(*in.SelfEmploymentNetProfit))
	}
	return domain.HouseholdSummary{
		TaxYear:           in.TaxYear,
		FilingStatus:      in.FilingStatus,
		GrossIncome:       gross,
		BusinessExpenses:  expenses,
		OtherDeductions:   domain.Deref(in.AboveLineAdjustments),
		Credits:           domain.Deref(in.NonrefundableCredits),
		Withholding:       domain.Deref(in.IncomeTaxWithheld),
		PriorYearTotalTax: in.PriorYearTotalTax,
		HighIncome:        in.HighIncomePriorYear,
	}
}
