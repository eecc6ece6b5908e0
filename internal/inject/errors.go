package inject

import "fmt"

// AnchorNotFoundError is returned when no line of the target contains the anchor.
type AnchorNotFoundError struct {
	Path   string
	Anchor string
}

func (e *AnchorNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("anchor %q not found", e.Anchor)
	}
	return fmt.Sprintf("anchor %q not found in %s", e.Anchor, e.Path)
}

// LineOutOfRangeError is returned when lineAt exceeds the line count plus one.
type LineOutOfRangeError struct {
	Path      string
	Line      int
	LineCount int
}

func (e *LineOutOfRangeError) Error() string {
	where := ""
	if e.Path != "" {
		where = " in " + e.Path
	}
	return fmt.Sprintf("line %d out of range%s: file has %d lines (max insert position %d)",
		e.Line, where, e.LineCount, e.LineCount+1)
}

// TargetNotFoundError is returned when an inject mode targets a missing file.
type TargetNotFoundError struct {
	Path string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("inject target %s does not exist", e.Path)
}
