package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gantt2img/pkg/timeunit"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(14)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
)

const rangeLayout = "2006-01-02 15:04"

func printSummary(w io.Writer, s summary) {
	lines := []string{titleStyle.Render("✓ " + s.Output)}
	row := func(label, value string) {
		lines = append(lines, labelStyle.Render(label)+value)
	}

	row("size", fmt.Sprintf("%gx%g @%gx", s.Width, s.Height, s.Ratio))
	rows := s.Stats.Rows
	if rows.Last < rows.First {
		row("rows", fmt.Sprintf("none of %d", s.Total))
	} else {
		row("rows", fmt.Sprintf("%d-%d of %d", rows.First+1, rows.Last+1, s.Total))
	}
	row("elements", fmt.Sprintf("%d drawn", s.Stats.Elements))

	deps := fmt.Sprintf("%d drawn", s.Stats.Dependencies.Drawn)
	if n := s.Stats.Dependencies.Detours; n > 0 {
		deps += fmt.Sprintf(", %d detoured", n)
	}
	if n := s.Stats.Dependencies.Skipped; n > 0 {
		deps += warnStyle.Render(fmt.Sprintf(", %d skipped", n))
	}
	row("dependencies", deps)

	row("zoom", fmt.Sprintf("%.1f (%s)", s.Zoom, s.Unit))
	row("grid", s.Stats.Selection.String())
	row("range", formatRange(s.Range.Start, s.Range.End, s.Loc))
	row("took", s.Elapsed.Round(time.Millisecond).String())

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatRange(start, end float64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	from := time.UnixMilli(int64(start)).In(loc)
	to := time.UnixMilli(int64(end)).In(loc)
	span := timeunit.FormatDuration(int64(end - start))
	return fmt.Sprintf("%s → %s (%s)", from.Format(rangeLayout), to.Format(rangeLayout), span)
}
