package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kjourdan1/scaffctl/internal/output"
)

var areaLabels = map[string]string{
	"tool":       "shell",
	"config":     "settings",
	"filesystem": "paths",
}

// StatusLabel is the status column text.
func StatusLabel(s Status) string {
	if output.NoColor() {
		return strings.ToUpper(string(s))
	}
	switch s {
	case StatusPass:
		return "✔ pass"
	case StatusFail:
		return "✖ fail"
	case StatusWarn:
		return "⚠ warn"
	case StatusSkip:
		return "↷ skip"
	}
	return "? " + string(s)
}

func statusStyle(s Status) lipgloss.Style {
	switch s {
	case StatusPass:
		return output.StyleSuccess
	case StatusFail:
		return output.StyleError
	case StatusWarn:
		return output.StyleWarning
	}
	return output.StyleMuted
}

// PrintResults renders the checks as a table on stdout followed by the fix
// for every check that did not pass. In JSON mode it emits the envelope
// instead. The caller maps summary.HasFailure to the exit code.
func PrintResults(summary Summary) {
	if output.JSONMode {
		output.JSON(summary)
		return
	}

	output.Step("Checking the generate environment")
	fmt.Fprintln(os.Stdout, renderTable(summary))

	var fixes []string
	for _, r := range summary.Results {
		if r.Status != StatusPass && r.Fix != "" {
			fixes = append(fixes, fmt.Sprintf("  %s: %s", r.Name, r.Fix))
		}
	}
	if len(fixes) > 0 {
		fmt.Fprintln(os.Stdout, output.Styled(output.StyleBold, "How to fix:"))
		fmt.Fprintln(os.Stdout, strings.Join(fixes, "\n"))
	}

	reportTotals(summary)
}

func renderTable(summary Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for i, r := range summary.Results {
		area := ""
		if i < len(summary.categories) {
			area = summary.categories[i]
		}
		if label, ok := areaLabels[area]; ok {
			area = label
		}
		rows = append(rows, []string{area, r.Name, StatusLabel(r.Status), r.Message})
	}

	border := lipgloss.RoundedBorder()
	if output.NoColor() {
		border = lipgloss.ASCIIBorder()
	}
	t := table.New().
		Border(border).
		Headers("AREA", "CHECK", "STATUS", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			if output.NoColor() {
				return cell
			}
			if row == table.HeaderRow {
				return cell.Bold(true).Foreground(output.ColorAccent)
			}
			if col == 2 && row >= 0 && row < len(summary.Results) {
				return cell.Inherit(statusStyle(summary.Results[row].Status))
			}
			return cell
		})
	return t.String()
}

func reportTotals(s Summary) {
	counts := fmt.Sprintf("%d passed, %d warnings, %d failed", s.TotalPass, s.TotalWarn, s.TotalFail)
	if s.TotalSkip > 0 {
		counts += fmt.Sprintf(", %d skipped", s.TotalSkip)
	}
	switch {
	case s.HasFailure:
		output.Fail("doctor: " + counts)
	case s.TotalWarn > 0:
		output.Warn("doctor: " + counts)
	default:
		output.Success("doctor: environment ready (" + counts + ")")
	}
}
