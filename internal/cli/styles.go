package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/studyloop/cadence/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

func severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical, models.SeverityHigh:
		return dangerStyle
	case models.SeverityMedium:
		return warnStyle
	default:
		return dimStyle
	}
}

func riskStyle(r models.RiskLevel) lipgloss.Style {
	switch r {
	case models.RiskCritical, models.RiskHigh:
		return dangerStyle
	case models.RiskMedium:
		return warnStyle
	default:
		return okStyle
	}
}
