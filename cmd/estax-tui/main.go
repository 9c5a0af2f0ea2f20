package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/tui"
)

func main() {
	// Optional worksheet input file; a blank worksheet is edited without one
	inputPath := ""
	if len(os.Args) > 2 {
		fmt.Println("Usage: estax-tui [worksheet-file]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		inputPath = os.Args[1]
		if _, err := os.Stat(inputPath); os.IsNotExist(err) {
			fmt.Printf("Error: Input file not found: %s\n", inputPath)
			os.Exit(1)
		}
	}

	rules, err := config.LoadRules(os.Getenv("ESTAX_RULES"))
	if err != nil {
		fmt.Printf("Error loading rules: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(rules, inputPath),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
