package template

import (
	"encoding/json"
	"regexp"
	"strings"
	texttemplate "text/template"
	"unicode"
)

// HelperFuncMap returns template helper functions.
func HelperFuncMap() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"slugify": Slugify,
		"camel":   Camel,
		"pascal":  Pascal,
		"kebab":   Kebab,
		"snake":   Snake,
		"plural":  Plural,
		"toJSON":  ToJSON,
	}
}

// ToJSON marshals a value to a compact JSON string for template rendering.
func ToJSON(value any) string {
	b, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(b)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify normalizes a string into a URL-safe lowercase slug.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if s == "" {
		return "default"
	}
	return s
}

// words splits an identifier on separators and lower-to-upper case changes.
// "userProfile-settings_v2" becomes [user profile settings v2].
func words(value string) []string {
	var (
		out     []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(strings.TrimSpace(value))
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && len(current) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return out
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r := []rune(word)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Camel converts value to camelCase.
func Camel(value string) string {
	parts := words(value)
	for i := 1; i < len(parts); i++ {
		parts[i] = capitalize(parts[i])
	}
	return strings.Join(parts, "")
}

// Pascal converts value to PascalCase.
func Pascal(value string) string {
	parts := words(value)
	for i := range parts {
		parts[i] = capitalize(parts[i])
	}
	return strings.Join(parts, "")
}

// Kebab converts value to kebab-case.
func Kebab(value string) string {
	return strings.Join(words(value), "-")
}

// Snake converts value to snake_case.
func Snake(value string) string {
	return strings.Join(words(value), "_")
}

var irregularPlurals = map[string]string{
	"person": "people",
	"child":  "children",
	"man":    "men",
	"woman":  "women",
	"mouse":  "mice",
	"index":  "indices",
}

// Plural returns a naive English plural of a single word, keeping the
// leading letter case.
func Plural(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if irr, ok := irregularPlurals[lower]; ok {
		if unicode.IsUpper([]rune(word)[0]) {
			return capitalize(irr)
		}
		return irr
	}

	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}
