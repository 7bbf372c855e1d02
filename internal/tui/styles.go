package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/studyloop/cadence/internal/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func severityStyle(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return dangerStyle.Render("[critical]")
	case models.SeverityHigh:
		return dangerStyle.Render("[high]")
	case models.SeverityMedium:
		return warnStyle.Render("[medium]")
	default:
		return dimStyle.Render("[low]")
	}
}

func riskStyle(r models.RiskLevel) string {
	switch r {
	case models.RiskCritical:
		return dangerStyle.Render("[critical]")
	case models.RiskHigh:
		return dangerStyle.Render("[high]")
	case models.RiskMedium:
		return warnStyle.Render("[medium]")
	default:
		return dimStyle.Render("[low]")
	}
}

func statusStyle(s models.ProposalStatus) string {
	switch s {
	case models.ProposalProposed:
		return warnStyle.Render("proposed")
	case models.ProposalApplied:
		return okStyle.Render("applied")
	default:
		return dimStyle.Render(string(s))
	}
}
