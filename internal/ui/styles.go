// Package ui es la capa de presentación: una TUI Bubble Tea sobre la capa de
// coordinación de internal/state. Acá no hay lógica de dominio; todo lo que
// se ve sale de state/records.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colPrimary = lipgloss.Color("75")  // azul
	colSuccess = lipgloss.Color("78")  // verde
	colError   = lipgloss.Color("203") // rojo
	colWarning = lipgloss.Color("221") // amarillo
	colMuted   = lipgloss.Color("243")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(colMuted)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colMuted)
	tabActiveStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(colPrimary).Underline(true)

	selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(colPrimary)

	pendingStyle   = lipgloss.NewStyle().Foreground(colWarning)
	overdueStyle   = lipgloss.NewStyle().Foreground(colError)
	completedStyle = lipgloss.NewStyle().Foreground(colSuccess)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colPrimary).
			Padding(1, 2)

	destructiveBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colError).
				Padding(1, 2)

	toastSuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(colSuccess)
	toastErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colError)
	toastWarningStyle = lipgloss.NewStyle().Bold(true).Foreground(colWarning)

	helpStyle = lipgloss.NewStyle().Foreground(colMuted)
)

func statusStyle(s string) lipgloss.Style {
	switch s {
	case "completed":
		return completedStyle
	case "overdue":
		return overdueStyle
	default:
		return pendingStyle
	}
}

func toastStyle(severity string) lipgloss.Style {
	switch severity {
	case "success":
		return toastSuccessStyle
	case "warning":
		return toastWarningStyle
	default:
		return toastErrorStyle
	}
}
