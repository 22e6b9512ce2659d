// internal/report/report.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xkilldash9x/quixfix/api/schemas"
)

const (
	barWidth   = 20
	gaugeWidth = 30
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 3).
			Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	faintStyle = lipgloss.NewStyle().Foreground(faint)
	passStyle  = lipgloss.NewStyle().Foreground(success)
	failStyle  = lipgloss.NewStyle().Foreground(danger)

	separatorLine = faintStyle.Render(strings.Repeat("─", 56))
)

// Render formats a suite of repair outcomes as a terminal report: a
// per-file table, a bar chart of attempts, and a success-rate gauge.
func Render(outcomes []schemas.RepairOutcome) string {
	var b strings.Builder

	title := headerStyle.Render("quixfix")
	subtitle := dimStyle.Render("Repair Suite Summary")
	b.WriteString(boxStyle.Render(title + "\n" + subtitle))
	b.WriteString("\n\n")

	if len(outcomes) == 0 {
		b.WriteString("  " + dimStyle.Render("No programs were processed.") + "\n")
		return b.String()
	}

	nameWidth := 0
	maxAttempts := 1
	repaired := 0
	for _, o := range outcomes {
		if len(o.File) > nameWidth {
			nameWidth = len(o.File)
		}
		if o.Attempts > maxAttempts {
			maxAttempts = o.Attempts
		}
		if o.Success {
			repaired++
		}
	}

	b.WriteString("  " + titleStyle.Render("Results") + "\n\n")
	for _, o := range outcomes {
		icon := failStyle.Render("✗")
		status := failStyle.Render("failed  ")
		if o.Success {
			icon = passStyle.Render("✓")
			status = passStyle.Render("repaired")
		}
		fmt.Fprintf(&b, "    %s %s  %s  %s\n",
			icon,
			padRight(o.File, nameWidth),
			status,
			dimStyle.Render(fmt.Sprintf("%d attempts", o.Attempts)),
		)
	}

	b.WriteString("\n  " + separatorLine + "\n\n")

	b.WriteString("  " + titleStyle.Render("Attempts per Program") + "\n\n")
	for _, o := range outcomes {
		fmt.Fprintf(&b, "    %s %s %s\n",
			padRight(o.File, nameWidth),
			attemptsBar(o.Attempts, maxAttempts, o.Success),
			dimStyle.Render(strconv.Itoa(o.Attempts)),
		)
	}

	b.WriteString("\n  " + separatorLine + "\n\n")

	pct := repaired * 100 / len(outcomes)
	b.WriteString("  " + titleStyle.Render("Success Rate") + "\n\n")
	fmt.Fprintf(&b, "    %s %s\n",
		gauge(pct),
		fmt.Sprintf("%d%%  (%d/%d repaired)", pct, repaired, len(outcomes)),
	)
	b.WriteString("\n")

	return b.String()
}

// WriteCSV writes one row per outcome with a file, success, attempts header.
func WriteCSV(w io.Writer, outcomes []schemas.RepairOutcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "success", "attempts"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, o := range outcomes {
		record := []string{o.File, strconv.FormatBool(o.Success), strconv.Itoa(o.Attempts)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", o.File, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func attemptsBar(attempts, maxAttempts int, succeeded bool) string {
	filled := attempts * barWidth / maxAttempts
	if filled > barWidth {
		filled = barWidth
	}
	color := danger
	if succeeded {
		color = success
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := faintStyle.Render(strings.Repeat("░", barWidth-filled))
	return bar + rest
}

func gauge(pct int) string {
	filled := pct * gaugeWidth / 100
	if filled > gaugeWidth {
		filled = gaugeWidth
	}
	color := danger
	switch {
	case pct >= 70:
		color = success
	case pct >= 40:
		color = lipgloss.Color("#F59E0B") // amber-yellow
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := faintStyle.Render(strings.Repeat("░", gaugeWidth-filled))
	return bar + rest
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
