// Package frontmatter splits a template file into its configuration block and
// body, and folds the block into a validated Frontmatter.
//
// Two block syntaxes are recognised: YAML between "---" lines and TOML between
// "+++" lines. A file without a block is a plain overwrite template.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	yamlMarker = "---"
	tomlMarker = "+++"
	bom        = "\ufeff"
)

var knownFields = []string{
	"to", "inject", "after", "before", "append", "prepend",
	"lineAt", "skipIf", "chmod", "sh", "unlessExists",
}

var positionFields = []string{"after", "before", "append", "prepend", "lineAt"}

var (
	yamlLineRe = regexp.MustCompile(`line (\d+)`)
	chmodRe    = regexp.MustCompile(`^[0-7]{3,4}$`)
)

// block is the raw frontmatter located inside a template file.
type block struct {
	format    Format
	text      string
	startLine int // file line of the first block line
	bodyLine  int
	body      string
}

// Parse splits raw into frontmatter and body. defaultTo is used as the target
// path when the file has no block or the block omits "to".
func Parse(raw, defaultTo string) (*Document, error) {
	b, err := split(raw)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &Document{
			Frontmatter: Frontmatter{To: defaultTo, Mode: Overwrite{}},
			Format:      FormatNone,
			Body:        raw,
			BodyLine:    1,
		}, nil
	}

	var (
		fields   map[string]any
		keyLines map[string]int
	)
	switch b.format {
	case FormatTOML:
		fields, keyLines, err = decodeTOML(b)
	default:
		fields, keyLines, err = decodeYAML(b)
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{Format: b.format, Body: b.body, BodyLine: b.bodyLine}
	doc.Warnings = unknownFieldWarnings(fields)

	fieldErrs, err := validateFields(fields)
	if err != nil {
		return nil, &ParseError{Msg: "schema validation failed", Cause: err}
	}
	if len(fieldErrs) > 0 {
		return nil, firstFieldError(fieldErrs, keyLines)
	}

	fm, warnings, err := fold(fields, keyLines)
	if err != nil {
		return nil, err
	}
	if fm.To == "" {
		fm.To = defaultTo
	}
	doc.Frontmatter = fm
	doc.Warnings = append(doc.Warnings, warnings...)
	return doc, nil
}

// split locates the frontmatter block. It returns nil when the file does not
// start with a marker line.
func split(raw string) (*block, error) {
	text := strings.TrimPrefix(raw, bom)

	first, rest, hasNewline := strings.Cut(text, "\n")
	marker := strings.TrimRight(first, " \t\r")
	if marker != yamlMarker && marker != tomlMarker {
		return nil, nil
	}
	format := FormatYAML
	if marker == tomlMarker {
		format = FormatTOML
	}
	if !hasNewline {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("unterminated frontmatter block: missing closing %q", marker)}
	}

	var content strings.Builder
	line := 2
	for {
		current, remaining, more := strings.Cut(rest, "\n")
		if strings.TrimRight(current, " \t\r") == marker {
			return &block{
				format:    format,
				text:      content.String(),
				startLine: 2,
				bodyLine:  line + 1,
				body:      remaining,
			}, nil
		}
		if !more {
			break
		}
		content.WriteString(strings.TrimSuffix(current, "\r"))
		content.WriteByte('\n')
		rest = remaining
		line++
	}
	return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("unterminated frontmatter block: missing closing %q", marker)}
}

func decodeYAML(b *block) (map[string]any, map[string]int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(b.text), &doc); err != nil {
		return nil, nil, yamlParseError(err, b.startLine)
	}

	fields := map[string]any{}
	keyLines := map[string]int{}
	if len(doc.Content) == 0 {
		return fields, keyLines, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, &ParseError{
			Line: root.Line + b.startLine - 1,
			Msg:  "frontmatter must be a mapping of key: value pairs",
		}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		line := key.Line + b.startLine - 1
		if first, dup := keyLines[key.Value]; dup {
			return nil, nil, &ParseError{
				Line:  line,
				Field: key.Value,
				Msg:   fmt.Sprintf("duplicate field (first defined on line %d)", first),
			}
		}
		keyLines[key.Value] = line

		// chmod keeps its literal spelling: YAML reads 0755 as an octal int
		// and 755 as a decimal one.
		if key.Value == "chmod" && value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
			fields[key.Value] = value.Value
			continue
		}

		var v any
		if err := value.Decode(&v); err != nil {
			return nil, nil, &ParseError{Line: line, Field: key.Value, Msg: "invalid value", Cause: err}
		}
		fields[key.Value] = v
	}
	return fields, keyLines, nil
}

func yamlParseError(err error, startLine int) *ParseError {
	line := 0
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			line = n + startLine - 1
		}
	}
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	msg = yamlLineRe.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg), ":"))
	return &ParseError{Line: line, Msg: "invalid YAML: " + msg}
}

func decodeTOML(b *block) (map[string]any, map[string]int, error) {
	fields := map[string]any{}
	if err := toml.Unmarshal([]byte(b.text), &fields); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, _ := derr.Position()
			return nil, nil, &ParseError{Line: row + b.startLine - 1, Msg: "invalid TOML: " + derr.Error()}
		}
		return nil, nil, &ParseError{Msg: "invalid TOML", Cause: err}
	}

	keyLines := map[string]int{}
	for i, line := range strings.Split(b.text, "\n") {
		key, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'`)
		if _, seen := keyLines[key]; !seen && key != "" {
			keyLines[key] = i + b.startLine
		}
	}
	return fields, keyLines, nil
}

func unknownFieldWarnings(fields map[string]any) []string {
	known := make(map[string]bool, len(knownFields))
	folded := make(map[string]string, len(knownFields))
	for _, f := range knownFields {
		known[f] = true
		folded[foldName(f)] = f
	}

	var unknown []string
	for k := range fields {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	warnings := make([]string, 0, len(unknown))
	for _, k := range unknown {
		if suggestion, ok := folded[foldName(k)]; ok {
			warnings = append(warnings, fmt.Sprintf("unknown frontmatter field %q (did you mean %q?)", k, suggestion))
			continue
		}
		warnings = append(warnings, fmt.Sprintf("unknown frontmatter field %q", k))
	}
	return warnings
}

func foldName(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
}

func firstFieldError(errs []fieldError, keyLines map[string]int) *ParseError {
	best := errs[0]
	bestLine := keyLines[topLevelField(best.Field)]
	for _, e := range errs[1:] {
		line := keyLines[topLevelField(e.Field)]
		if line > 0 && (bestLine == 0 || line < bestLine) {
			best, bestLine = e, line
		}
	}
	return &ParseError{Line: bestLine, Field: topLevelField(best.Field), Msg: best.Description}
}

func topLevelField(field string) string {
	head, _, _ := strings.Cut(field, ".")
	if head == "(root)" {
		return ""
	}
	return head
}

// fold turns schema-valid fields into a Frontmatter, enforcing the write mode
// rules.
func fold(fields map[string]any, keyLines map[string]int) (Frontmatter, []string, error) {
	var (
		fm       Frontmatter
		warnings []string
	)

	fm.To = strings.TrimSpace(stringField(fields, "to"))
	fm.SkipIf = strings.TrimSpace(stringField(fields, "skipIf"))
	fm.UnlessExists = boolField(fields, "unlessExists")

	mode, err := foldMode(fields, keyLines)
	if err != nil {
		return fm, nil, err
	}
	fm.Mode = mode
	if fm.UnlessExists && IsInject(mode) {
		warnings = append(warnings, "unlessExists has no effect in inject mode")
	}

	if v, ok := fields["chmod"]; ok && v != nil {
		perm, err := parseChmod(v)
		if err != nil {
			return fm, nil, &ParseError{Line: keyLines["chmod"], Field: "chmod", Msg: err.Error()}
		}
		fm.Chmod = &perm
	}

	sh, shWarnings, err := foldCommands(fields["sh"], keyLines["sh"])
	if err != nil {
		return fm, nil, err
	}
	fm.Sh = sh
	warnings = append(warnings, shWarnings...)

	return fm, warnings, nil
}

func foldMode(fields map[string]any, keyLines map[string]int) (WriteMode, error) {
	inject := boolField(fields, "inject")

	var set []string
	for _, f := range positionFields {
		if positionSet(fields, f) {
			set = append(set, f)
		}
	}

	for _, f := range []string{"after", "before"} {
		if v, ok := fields[f].(string); ok && v == "" {
			return nil, &ParseError{Line: keyLines[f], Field: f, Msg: "anchor must not be empty"}
		}
	}

	switch {
	case len(set) > 1:
		return nil, &ParseError{
			Line:  keyLines[set[1]],
			Field: strings.Join(set, ", "),
			Msg:   "mutually exclusive write modes; choose one of after, before, append, prepend, lineAt",
		}
	case len(set) == 1 && !inject:
		return nil, &ParseError{Line: keyLines[set[0]], Field: set[0], Msg: "requires inject: true"}
	case len(set) == 0 && inject:
		return nil, &ParseError{
			Line:  keyLines["inject"],
			Field: "inject",
			Msg:   "inject: true requires one of after, before, append, prepend, lineAt",
		}
	case len(set) == 0:
		return Overwrite{}, nil
	}

	switch set[0] {
	case "after":
		return InjectAfter{Anchor: fields["after"].(string)}, nil
	case "before":
		return InjectBefore{Anchor: fields["before"].(string)}, nil
	case "append":
		return Append{}, nil
	case "prepend":
		return Prepend{}, nil
	default:
		line, _ := intField(fields, "lineAt")
		return LineAt{Line: line}, nil
	}
}

func positionSet(fields map[string]any, name string) bool {
	v, ok := fields[name]
	if !ok || v == nil {
		return false
	}
	switch typed := v.(type) {
	case bool:
		return typed
	default:
		return true
	}
}

func foldCommands(v any, line int) ([]string, []string, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil, []string{"sh is empty; no command will run"}, nil
		}
		return []string{typed}, nil, nil
	case []any:
		cmds := make([]string, 0, len(typed))
		for i, item := range typed {
			s, _ := item.(string)
			if strings.TrimSpace(s) == "" {
				return nil, nil, &ParseError{Line: line, Field: "sh", Msg: fmt.Sprintf("command %d is empty", i+1)}
			}
			cmds = append(cmds, s)
		}
		return cmds, nil, nil
	default:
		return nil, nil, &ParseError{Line: line, Field: "sh", Msg: "must be a string or a list of strings"}
	}
}
