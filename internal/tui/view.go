package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studyloop/cadence/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loadErr != nil {
		return dangerStyle.Render("failed to load schedule: "+m.loadErr.Error()) + "\n"
	}

	var content string
	switch m.state {
	case StateWorkload:
		content = m.viewWorkload()
	case StateConflicts:
		content = m.viewConflicts()
	case StateProposals:
		content = m.viewProposals()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Workload", "Conflicts", "Proposals"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewWorkload() string {
	var b strings.Builder
	a := m.analysis

	fmt.Fprintf(&b, "Weekly average: %.0f focus minutes\n\n", a.WeeklyAverageMin)

	days := make([]string, 0, len(a.DailyLoad))
	for day := range a.DailyLoad {
		days = append(days, day)
	}
	sort.Strings(days)
	overloaded := make(map[string]bool, len(a.OverloadedDays))
	for _, day := range a.OverloadedDays {
		overloaded[day] = true
	}
	for _, day := range days {
		line := fmt.Sprintf("  %s  %4d min", day, a.DailyLoad[day])
		if overloaded[day] {
			line += "  " + dangerStyle.Render("over limit")
		}
		b.WriteString(line + "\n")
	}
	if len(days) == 0 {
		b.WriteString(dimStyle.Render("  nothing scheduled\n"))
	}

	if len(a.CrammingRisks) > 0 {
		b.WriteString("\nCramming risks\n")
		for _, r := range a.CrammingRisks {
			fmt.Fprintf(&b, "  %s %q needs %d min, due in %.1f days\n",
				riskStyle(r.RiskLevel), r.Title, r.DeficitMin, r.DaysUntilDue)
		}
	}
	for _, rec := range a.Recommendations {
		b.WriteString(dimStyle.Render("  → "+rec) + "\n")
	}
	return b.String()
}

func (m Model) viewConflicts() string {
	if len(m.conflicts) == 0 {
		return dimStyle.Render("No conflicts in the lookahead window.")
	}
	var b strings.Builder
	for _, c := range m.conflicts {
		fmt.Fprintf(&b, "%s %s\n", severityStyle(c.Severity), c.Description)
		for _, r := range c.Resolutions {
			fmt.Fprintf(&b, "    could move to %s (%s)\n",
				r.NewStart.In(m.location()).Format("Mon Jan 2 15:04"),
				dimStyle.Render(fmt.Sprintf("churn %.0f", r.ChurnCost)))
		}
	}
	return b.String()
}

func (m Model) viewProposals() string {
	if len(m.proposals) == 0 {
		return dimStyle.Render("No proposals yet. Run 'cadence propose'.")
	}
	var b strings.Builder
	for i, p := range m.proposals {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s  %s  %d moves, churn %.0f  %s\n",
			cursor, p.ID[:8], statusStyle(p.Status), len(p.Moves), p.TotalChurn,
			dimStyle.Render(p.CreatedAt.In(m.location()).Format("Jan 2 15:04")))
	}

	if p := m.selectedProposal(); p != nil {
		b.WriteString("\n")
		for _, mv := range p.Moves {
			b.WriteString("  " + m.describeMove(mv) + "\n")
		}
	}
	return b.String()
}

func (m Model) describeMove(mv models.Move) string {
	loc := m.location()
	switch mv.Type {
	case models.MoveInsert:
		return fmt.Sprintf("add %q %s–%s", mv.Title,
			mv.NewStart.In(loc).Format("Mon Jan 2 15:04"), mv.NewEnd.In(loc).Format("15:04"))
	case models.MoveMove, models.MoveResize:
		return fmt.Sprintf("move %q %s → %s", mv.Title,
			mv.OriginalStart.In(loc).Format("Mon Jan 2 15:04"), mv.NewStart.In(loc).Format("Mon Jan 2 15:04"))
	case models.MoveDelete:
		return fmt.Sprintf("remove %q", mv.Title)
	}
	return string(mv.Type)
}
