package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Prompt      lipgloss.Style
	Match       lipgloss.Style
	MatchActive lipgloss.Style
	CardTitle   lipgloss.Style
	Card        lipgloss.Style
	DotActive   lipgloss.Style
	DotInactive lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:        lipgloss.NewStyle().Faint(true),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MatchActive: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		CardTitle:   lipgloss.NewStyle().Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		DotActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DotInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// itemColor falls back to the title color when an item has none
func itemColor(c string) lipgloss.Color {
	if c == "" {
		return lipgloss.Color("99")
	}
	return lipgloss.Color(c)
}
