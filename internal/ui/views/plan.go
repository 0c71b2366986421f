package views

import (
	"strings"
)

// PlanData is everything the plan workspace view draws.
type PlanData struct {
	Name      string
	Owner     string
	Tabs      []string
	ActiveTab int
	Lines     []string // tab body content
	Status    string
	Help      string
}

// RenderPlan draws the plan workspace: a tab bar and the active tab body.
func (r *Renderer) RenderPlan(d PlanData) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(d.Name))
	if d.Owner != "" {
		b.WriteString("  ")
		b.WriteString(r.styles.Dim.Render("owner: " + d.Owner))
	}
	b.WriteString("\n\n")

	tabs := make([]string, len(d.Tabs))
	for i, t := range d.Tabs {
		if i == d.ActiveTab {
			tabs[i] = r.styles.TabActive.Render("[" + t + "]")
		} else {
			tabs[i] = r.styles.TabInactive.Render(" " + t + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	for _, line := range d.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if d.Status != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Status.Render(d.Status))
	}
	if d.Help != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Help.Render(d.Help))
	}
	return b.String()
}
