package display

import (
	"fmt"
	"strings"

	"brewalgo_client/internal/domain/model"

	"github.com/charmbracelet/lipgloss"
)

var categoryColors = map[Category]lipgloss.Color{
	CategoryAccepted:            lipgloss.Color("34"),
	CategoryWrongAnswer:         lipgloss.Color("160"),
	CategoryTimeLimitExceeded:   lipgloss.Color("214"),
	CategoryMemoryLimitExceeded: lipgloss.Color("208"),
	CategoryCompileError:        lipgloss.Color("129"),
	CategoryRuntimeError:        lipgloss.Color("202"),
	CategoryPending:             lipgloss.Color("33"),
	CategoryError:               lipgloss.Color("196"),
	CategoryEasy:                lipgloss.Color("34"),
	CategoryMedium:              lipgloss.Color("214"),
	CategoryHard:                lipgloss.Color("160"),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Style returns the badge style for a category. Unknown categories get the
// neutral grey.
func Style(c Category) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = lipgloss.Color("245")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

func RenderResult(r *model.ReconciledResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Style(StatusCategory(r.Status)).Render(StatusLabel(r.Status)))
	for _, row := range ResultRows(r) {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(row.Label + ":"))
		if strings.Contains(row.Value, "\n") {
			b.WriteString("\n")
			b.WriteString(boxStyle.Render(row.Value))
		} else {
			b.WriteString(" " + row.Value)
		}
	}
	return b.String()
}

func RenderProblem(p *model.Problem) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("  ")
	b.WriteString(Style(DifficultyCategory(p.Difficulty)).Render(string(p.Difficulty)))
	fmt.Fprintf(&b, "\n%s %d pts   %s %.1f%%   %s %d\n",
		labelStyle.Render("Score:"), p.BaseScore,
		labelStyle.Render("Acceptance:"), p.AcceptanceRate,
		labelStyle.Render("Submissions:"), p.TotalSubmissions)
	b.WriteString("\n" + p.Description + "\n")
	if p.Hints != "" {
		b.WriteString("\n" + labelStyle.Render("Hints:") + "\n" + p.Hints + "\n")
	}
	return b.String()
}

func RenderProblemList(problems []model.Problem) string {
	if len(problems) == 0 {
		return "No problems found.\n"
	}
	var b strings.Builder
	for _, p := range problems {
		diff := Style(DifficultyCategory(p.Difficulty)).Width(8).Render(string(p.Difficulty))
		fmt.Fprintf(&b, "%s %-40s %5.1f%%  %s\n", diff, p.Title, p.AcceptanceRate, labelStyle.Render(p.Slug))
	}
	return b.String()
}

func RenderProfile(u *model.User) string {
	if u == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(u.Username))
	if u.Role != "" {
		b.WriteString(" " + labelStyle.Render("("+u.Role+")"))
	}
	b.WriteString("\n")
	if u.Email != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Email:"), u.Email)
	}
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Rating:"), u.Rating)
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Problems Solved:"), u.ProblemsSolved)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Member Since:"), u.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}

func RenderHistory(subs []model.SubmissionRecord) string {
	if len(subs) == 0 {
		return "No submissions yet.\n"
	}
	var b strings.Builder
	for _, s := range subs {
		badge := Style(StatusCategory(s.Status)).Width(22).Render(StatusLabel(s.Status))
		b.WriteString(badge)
		if s.Language != nil {
			b.WriteString(" " + string(*s.Language))
		}
		if s.ScoreAwarded != nil && *s.ScoreAwarded > 0 {
			fmt.Fprintf(&b, "  %d pts", *s.ScoreAwarded)
		}
		if s.SubmittedAt != nil && !s.SubmittedAt.IsZero() {
			b.WriteString("  " + labelStyle.Render(s.SubmittedAt.Format("2006-01-02 15:04")))
		}
		b.WriteString("\n")
	}
	return b.String()
}
