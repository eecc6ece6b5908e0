package frontmatter

import "fmt"

// ParseError reports a malformed frontmatter block. Line is the 1-based line of
// the template file the problem was found on (0 when unknown).
type ParseError struct {
	Line  int
	Field string
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d: ", e.Line)
	}
	if e.Field != "" {
		loc += e.Field + ": "
	}
	if e.Cause != nil {
		return fmt.Sprintf("frontmatter: %s%s: %v", loc, e.Msg, e.Cause)
	}
	return fmt.Sprintf("frontmatter: %s%s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
