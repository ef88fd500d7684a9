package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	borderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
