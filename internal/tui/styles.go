package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	clockStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	stateStyle = map[string]lipgloss.Style{
		"idle":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"running": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"paused":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"break":   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"sleep":   lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
	}
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
