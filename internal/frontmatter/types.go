package frontmatter

import "os"

// ModeKind names one of the six write modes.
type ModeKind string

const (
	ModeOverwrite    ModeKind = "overwrite"
	ModeInjectAfter  ModeKind = "inject-after"
	ModeInjectBefore ModeKind = "inject-before"
	ModeAppend       ModeKind = "append"
	ModePrepend      ModeKind = "prepend"
	ModeLineAt       ModeKind = "line-at"
)

// WriteMode is the sum type over the six write modes. Exactly one is active
// per template; invalid combinations never make it past Parse.
type WriteMode interface {
	Kind() ModeKind
	writeMode()
}

// Overwrite creates or replaces the target file.
type Overwrite struct{}

// InjectAfter inserts the body right after the first line containing Anchor.
type InjectAfter struct{ Anchor string }

// InjectBefore inserts the body right before the first line containing Anchor.
type InjectBefore struct{ Anchor string }

// Append inserts the body at the end of the target file.
type Append struct{}

// Prepend inserts the body at the start of the target file.
type Prepend struct{}

// LineAt inserts the body before 1-based line Line.
type LineAt struct{ Line int }

func (Overwrite) Kind() ModeKind    { return ModeOverwrite }
func (InjectAfter) Kind() ModeKind  { return ModeInjectAfter }
func (InjectBefore) Kind() ModeKind { return ModeInjectBefore }
func (Append) Kind() ModeKind       { return ModeAppend }
func (Prepend) Kind() ModeKind      { return ModePrepend }
func (LineAt) Kind() ModeKind       { return ModeLineAt }

func (Overwrite) writeMode()    {}
func (InjectAfter) writeMode()  {}
func (InjectBefore) writeMode() {}
func (Append) writeMode()       {}
func (Prepend) writeMode()      {}
func (LineAt) writeMode()       {}

// IsInject reports whether m mutates an existing file rather than replacing it.
func IsInject(m WriteMode) bool {
	return m != nil && m.Kind() != ModeOverwrite
}

// Format identifies the frontmatter block syntax.
type Format string

const (
	FormatNone Format = "none"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Frontmatter is the parsed configuration of one template.
type Frontmatter struct {
	To           string
	Mode         WriteMode
	SkipIf       string
	Chmod        *os.FileMode
	Sh           []string
	UnlessExists bool
}

// Document is a template split into its frontmatter and body.
type Document struct {
	Frontmatter Frontmatter
	Format      Format
	Body        string
	// BodyLine is the 1-based file line on which Body starts.
	BodyLine    int
	Warnings    []string
}
