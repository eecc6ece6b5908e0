// Package condition evaluates skipIf expressions against a render context.
//
// Supported grammar:
//   - operands: identifiers with dot paths (`user.role`), 'single' or "double"
//     quoted strings, numbers, true, false, null, undefined
//   - comparison: `==`, `!=` (`===` and `!==` are aliases)
//   - boolean composition: `&&`, `||`, `!`, parentheses
//   - a bare operand tests truthiness
//
// A missing identifier is undefined. Comparing undefined with anything other
// than null or undefined is false, for both == and !=. Anything outside the
// grammar is a SyntaxError.
package condition

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed expression. Pos is the 0-based byte offset.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("condition %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
}

// Expr is a compiled expression.
type Expr struct {
	source string
	root   node
}

// Compile parses expr. An empty expression compiles to one that is always false.
func Compile(expr string) (*Expr, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return &Expr{source: expr}, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{src: trimmed, tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		tok := p.peek()
		return nil, &SyntaxError{Expr: trimmed, Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.raw)}
	}
	return &Expr{source: expr, root: root}, nil
}

// Eval evaluates the expression against ctx.
func (e *Expr) Eval(ctx map[string]any) bool {
	if e == nil || e.root == nil {
		return false
	}
	return e.root.eval(ctx)
}

// String returns the source expression.
func (e *Expr) String() string {
	return e.source
}

// Evaluate compiles and evaluates expr in one step.
func Evaluate(expr string, ctx map[string]any) (bool, error) {
	compiled, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return compiled.Eval(ctx), nil
}
