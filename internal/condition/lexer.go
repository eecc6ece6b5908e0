package condition

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenUndefined
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	fail := func(pos int, msg string) error {
		return &SyntaxError{Expr: input, Pos: pos, Msg: msg}
	}

	for i < len(input) {
		ch := input[i]
		start := i
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "(", pos: start})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")", pos: start})
			i++
		case ch == '!':
			switch {
			case strings.HasPrefix(input[i:], "!=="):
				tokens = append(tokens, token{kind: tokenNeq, raw: "!==", pos: start})
				i += 3
			case strings.HasPrefix(input[i:], "!="):
				tokens = append(tokens, token{kind: tokenNeq, raw: "!=", pos: start})
				i += 2
			default:
				tokens = append(tokens, token{kind: tokenNot, raw: "!", pos: start})
				i++
			}
		case ch == '=':
			switch {
			case strings.HasPrefix(input[i:], "==="):
				tokens = append(tokens, token{kind: tokenEq, raw: "===", pos: start})
				i += 3
			case strings.HasPrefix(input[i:], "=="):
				tokens = append(tokens, token{kind: tokenEq, raw: "==", pos: start})
				i += 2
			default:
				return nil, fail(start, "unexpected '='; use '=='")
			}
		case ch == '&':
			if !strings.HasPrefix(input[i:], "&&") {
				return nil, fail(start, "unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&", pos: start})
			i += 2
		case ch == '|':
			if !strings.HasPrefix(input[i:], "||") {
				return nil, fail(start, "unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||", pos: start})
			i += 2
		case ch == '"' || ch == '\'':
			value, next, err := scanString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value, pos: start})
			i = next
		case isDigit(ch) || ((ch == '-' || ch == '+') && i+1 < len(input) && isDigit(input[i+1])):
			i++
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fail(start, "invalid number "+strconv.Quote(raw))
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw, pos: start})
		case isIdentStart(ch):
			for i < len(input) && (isIdentPart(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if strings.HasSuffix(raw, ".") || strings.Contains(raw, "..") {
				return nil, fail(start, "invalid identifier "+strconv.Quote(raw))
			}
			switch raw {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: raw, pos: start})
			case "null":
				tokens = append(tokens, token{kind: tokenNull, raw: raw, pos: start})
			case "undefined":
				tokens = append(tokens, token{kind: tokenUndefined, raw: raw, pos: start})
			default:
				tokens = append(tokens, token{kind: tokenIdent, raw: raw, pos: start})
			}
		default:
			return nil, fail(start, "unexpected character "+strconv.QuoteRune(rune(ch)))
		}
	}
	return tokens, nil
}

// scanString reads a quoted literal starting at input[i]. Backslash escapes the
// next byte.
func scanString(input string, i int) (string, int, error) {
	quote := input[i]
	var sb strings.Builder
	for j := i + 1; j < len(input); j++ {
		c := input[j]
		switch {
		case c == '\\' && j+1 < len(input):
			j++
			switch input[j] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(input[j])
			}
		case c == quote:
			return sb.String(), j + 1, nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, &SyntaxError{Expr: input, Pos: i, Msg: "unterminated string literal"}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
