package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type node interface {
	eval(ctx map[string]any) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx map[string]any) bool { return n.left.eval(ctx) || n.right.eval(ctx) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx map[string]any) bool { return n.left.eval(ctx) && n.right.eval(ctx) }

type notNode struct{ inner node }

func (n notNode) eval(ctx map[string]any) bool { return !n.inner.eval(ctx) }

type operandKind int

const (
	operandIdent operandKind = iota
	operandString
	operandNumber
	operandBool
	operandNull
)

type operand struct {
	kind operandKind
	raw  string
}

// value is a resolved operand. defined is false for missing identifiers and
// for the null/undefined literals.
type value struct {
	v       any
	defined bool
	literal bool
	kind    operandKind
}

func (o operand) resolve(ctx map[string]any) value {
	switch o.kind {
	case operandIdent:
		v, ok := lookup(ctx, o.raw)
		if !ok || v == nil {
			return value{kind: operandIdent}
		}
		return value{v: v, defined: true, kind: operandIdent}
	case operandString:
		return value{v: o.raw, defined: true, literal: true, kind: operandString}
	case operandNumber:
		f, _ := strconv.ParseFloat(o.raw, 64)
		return value{v: f, defined: true, literal: true, kind: operandNumber}
	case operandBool:
		return value{v: o.raw == "true", defined: true, literal: true, kind: operandBool}
	default:
		return value{literal: true, kind: operandNull}
	}
}

type compareNode struct {
	left, right operand
	negate      bool
}

func (n compareNode) eval(ctx map[string]any) bool {
	l, r := n.left.resolve(ctx), n.right.resolve(ctx)

	// Explicit absence tests.
	if l.kind == operandNull || r.kind == operandNull {
		other := l
		if l.kind == operandNull {
			other = r
		}
		absent := !other.defined
		if n.negate {
			return !absent
		}
		return absent
	}

	// Undefined compared with a concrete value is false either way.
	if !l.defined || !r.defined {
		return false
	}

	eq := equal(l, r)
	if n.negate {
		return !eq
	}
	return eq
}

// equal coerces the context value towards the literal's type.
func equal(l, r value) bool {
	if l.literal && !r.literal {
		l, r = r, l
	}
	switch r.kind {
	case operandString:
		return coerceString(l.v) == r.v.(string)
	case operandNumber:
		got, ok := coerceNumber(l.v)
		return ok && got == r.v.(float64)
	case operandBool:
		got, ok := coerceBool(l.v)
		return ok && got == r.v.(bool)
	default:
		if reflect.DeepEqual(l.v, r.v) {
			return true
		}
		return coerceString(l.v) == coerceString(r.v)
	}
}

type truthyNode struct{ operand operand }

func (n truthyNode) eval(ctx map[string]any) bool {
	v := n.operand.resolve(ctx)
	if !v.defined {
		return false
	}
	return truthy(v.v)
}

func lookup(ctx map[string]any, path string) (any, bool) {
	if len(ctx) == 0 {
		return nil, false
	}
	if v, ok := ctx[path]; ok {
		return v, true
	}

	var current any = ctx
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case float64:
		return typed != 0
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() > 0
		}
		return true
	}
}

func coerceBool(v any) (bool, bool) {
	switch typed := v.(type) {
	case bool:
		return typed, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(typed))
		return b, err == nil
	default:
		return truthy(v), true
	}
}

func coerceNumber(v any) (float64, bool) {
	switch typed := v.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
