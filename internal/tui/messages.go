package tui

import (
	"github.com/rgehrsitz/estax/internal/compare"
	"github.com/rgehrsitz/estax/internal/config"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneWorksheet Scene = iota
	SceneCompare
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneWorksheet:
		return "Worksheet"
	case SceneCompare:
		return "Compare"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// InputsLoadedMsg carries a worksheet document read from disk
type InputsLoadedMsg struct {
	Path     string
	Document *config.WorksheetDocument
}

// ComparisonCompleteMsg carries the strategy comparison for the current inputs
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}
