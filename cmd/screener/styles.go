package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)
)

// FormatSignal renders a cell with an arrow for directional signals.
func FormatSignal(s types.Signal) string {
	if d, ok := s.Direction(); ok {
		switch d {
		case types.DirectionBuy:
			return "+1 ▲"
		case types.DirectionSell:
			return "-1 ▼"
		default:
			return "0"
		}
	}

	if b, ok := s.Band(); ok {
		return string(b)
	}

	return "-"
}
