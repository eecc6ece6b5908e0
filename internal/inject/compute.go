// Package inject applies a rendered template body to a target file using one
// of the six write modes.
//
// Injection is idempotent: when the exact body lines already sit at the
// insertion point, nothing is written. Every line of the target keeps its
// own terminator; injected lines use the first line break of the target.
package inject

import (
	"fmt"
	"strings"

	"github.com/kjourdan1/scaffctl/internal/frontmatter"
)

// Plan is the outcome of applying a body to existing content in memory.
type Plan struct {
	Content string
	// Write is true when the file has to be written. Overwrite always writes;
	// injection modes write only when the content changes.
	Write bool
	// Changed is true when Content differs from the existing content.
	Changed bool
}

// Compute returns the new content of a target given its existing content.
// exists reports whether the target is present; injection modes require it.
func Compute(existing string, exists bool, body string, mode frontmatter.WriteMode) (Plan, error) {
	if mode == nil {
		mode = frontmatter.Overwrite{}
	}

	if mode.Kind() == frontmatter.ModeOverwrite {
		return Plan{Content: body, Write: true, Changed: !exists || existing != body}, nil
	}
	if !exists {
		return Plan{}, &TargetNotFoundError{}
	}

	unchanged := Plan{Content: existing}
	if body == "" {
		return unchanged, nil
	}

	doc := splitDocument(existing)
	block := bodyLines(body)

	var at int
	switch m := mode.(type) {
	case frontmatter.InjectAfter:
		idx := findAnchor(doc.lines, m.Anchor)
		if idx < 0 {
			return Plan{}, &AnchorNotFoundError{Anchor: m.Anchor}
		}
		if blockAt(doc.lines, idx+1, block) {
			return unchanged, nil
		}
		at = idx + 1

	case frontmatter.InjectBefore:
		idx := findAnchor(doc.lines, m.Anchor)
		if idx < 0 {
			return Plan{}, &AnchorNotFoundError{Anchor: m.Anchor}
		}
		if blockAt(doc.lines, idx-len(block), block) {
			return unchanged, nil
		}
		// A body that itself contains the anchor moves the first match into
		// the injected block on the next run.
		if k := findAnchor(block, m.Anchor); k >= 0 && blockAt(doc.lines, idx-k, block) {
			return unchanged, nil
		}
		at = idx

	case frontmatter.Append:
		if blockAt(doc.lines, len(doc.lines)-len(block), block) {
			return unchanged, nil
		}
		at = len(doc.lines)

	case frontmatter.Prepend:
		if blockAt(doc.lines, 0, block) {
			return unchanged, nil
		}
		at = 0

	case frontmatter.LineAt:
		count := len(doc.lines)
		if m.Line < 1 || m.Line > count+1 {
			return Plan{}, &LineOutOfRangeError{Line: m.Line, LineCount: count}
		}
		if blockAt(doc.lines, m.Line-1, block) {
			return unchanged, nil
		}
		at = m.Line - 1

	default:
		return Plan{}, fmt.Errorf("unsupported write mode %q", mode.Kind())
	}

	if len(doc.lines) == 0 || doc.eol == "" {
		// Nothing to inherit from the target; the body decides.
		doc.eol = detectEOL(body)
	}
	doc.insert(at, block, strings.HasSuffix(body, "\n"))
	content := doc.join()
	return Plan{Content: content, Write: content != existing, Changed: content != existing}, nil
}
