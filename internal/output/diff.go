package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff between before and after, headed by path.
// It returns "" when the contents are identical.
func Diff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	sb.WriteString("--- " + path + "\n")
	sb.WriteString("+++ " + path + "\n")
	for _, diff := range diffs {
		lines := strings.Split(diff.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			line = strings.TrimSuffix(line, "\r")
			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("- " + line + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+ " + line + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line + "\n")
			}
		}
	}
	return sb.String()
}

// ColorizeDiff styles the added and removed lines of a Diff result.
func ColorizeDiff(diff string) string {
	if NoColor() || diff == "" {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			sb.WriteString(StyleBold.Render(body) + nl)
		case strings.HasPrefix(body, "+ "):
			sb.WriteString(StyleSuccess.Render(body) + nl)
		case strings.HasPrefix(body, "- "):
			sb.WriteString(StyleError.Render(body) + nl)
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}
