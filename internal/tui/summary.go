package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pixflow/internal/batch"
)

// RenderSummary renders the batch report as a bordered two-column card.
func RenderSummary(summary batch.Summary) string {
	failedStyle := valueStyle
	if summary.Failed > 0 {
		failedStyle = valueStyle.Foreground(ColorFail)
	}
	rateStyle := valueStyle.Foreground(ColorWarn)
	if summary.SuccessRate == 100 {
		rateStyle = valueStyle.Foreground(ColorSuccess)
	}

	lines := []string{
		summaryLine("Items processed", fmt.Sprintf("%d", summary.TotalProcessed), valueStyle),
		summaryLine("Successful", fmt.Sprintf("%d", summary.Successful), valueStyle),
		summaryLine("Failed", fmt.Sprintf("%d", summary.Failed), failedStyle),
		summaryLine("Success rate", fmt.Sprintf("%d%%", summary.SuccessRate), rateStyle),
		summaryLine("Total time", fmt.Sprintf("%d ms", summary.TotalTimeMs), valueStyle),
		summaryLine("Avg per success", fmt.Sprintf("%d ms", summary.AverageTimeMs), valueStyle),
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func summaryLine(label, value string, style lipgloss.Style) string {
	return summaryLabelStyle.Render(label) + style.Render(value)
}

// RenderFailures lists failed outcomes, one line each.
func RenderFailures(summary batch.Summary) string {
	var lines []string
	for _, outcome := range summary.Results {
		if outcome.OK() {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s: %s",
			failStyle.Render("✗"),
			labelStyle.Render(outcome.Source),
			dimStyle.Render(outcome.Message),
		))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Failures:\n" + strings.Join(lines, "\n")
}

var (
	summaryLabelStyle = lipgloss.NewStyle().Foreground(ColorDim).Width(18)
	valueStyle        = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	failStyle         = lipgloss.NewStyle().Foreground(ColorFail)
	boxStyle          = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDim).
				Padding(0, 1)
)
