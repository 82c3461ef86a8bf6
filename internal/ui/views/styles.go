package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Count         lipgloss.Style
	Filter        lipgloss.Style
	PostTitle     lipgloss.Style
	PostBody      lipgloss.Style
	Empty         lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Count:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Filter:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		PostTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		PostBody:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		Empty:     lipgloss.NewStyle().Faint(true).Italic(true),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
	}
}
