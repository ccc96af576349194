package tui

import "github.com/charmbracelet/lipgloss"

// Theme groups the colours of the screen.
type Theme struct {
	Header        lipgloss.Style
	Cell          lipgloss.Style
	Cursor        lipgloss.Style
	LowStock      lipgloss.Style
	Help          lipgloss.Style
	Loading       lipgloss.Style
	FetchError    lipgloss.Style
	Success       lipgloss.Style
	Error         lipgloss.Style
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldDisabled lipgloss.Style
}

// DefaultTheme highlights low stock with the pink used on the web screen.
var DefaultTheme = Theme{
	Header:        lipgloss.NewStyle().Bold(true).Underline(true),
	Cell:          lipgloss.NewStyle(),
	Cursor:        lipgloss.NewStyle().Reverse(true),
	LowStock:      lipgloss.NewStyle().Background(lipgloss.Color("#eec7d6")).Foreground(lipgloss.Color("#1f1f1f")),
	Help:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Loading:       lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	FetchError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#52c41a")).Padding(0, 1),
	Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#ff4d4f")).Padding(0, 1),
	Modal:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	ModalTitle:    lipgloss.NewStyle().Bold(true),
	FieldLabel:    lipgloss.NewStyle().Width(20),
	FieldDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}
