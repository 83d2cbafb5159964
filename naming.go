package hammock

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RequestActionType generates a string such as
// `REQUEST_GET_FOO_BAR`
// from the inputs RequestActionType("GET", "fooBar")
func RequestActionType(xs ...string) string {
	return "REQUEST_" + actionize(xs)
}

// SuccessActionType generates a string such as
// `RECEIVE_GET_FOO_BAR_SUCCESS`
// from the inputs SuccessActionType("GET", "fooBar")
func SuccessActionType(xs ...string) string {
	return "RECEIVE_" + actionize(xs) + "_SUCCESS"
}

// FailureActionType generates a string such as
// `RECEIVE_GET_FOO_BAR_FAILURE`
// from the inputs FailureActionType("GET", "fooBar")
func FailureActionType(xs ...string) string {
	return "RECEIVE_" + actionize(xs) + "_FAILURE"
}

// ClearActionType generates a string such as
// `CLEAR_FOO_BAR`
// from the inputs ClearActionType("fooBar")
func ClearActionType(xs ...string) string {
	return "CLEAR_" + actionize(xs)
}

// actionize snake_cases each fragment, joins them with underscores and upper cases the result.
func actionize(xs []string) string {
	snaked := make([]string, len(xs))
	for i, x := range xs {
		snaked[i] = SnakeCase(x)
	}
	return cases.Upper(language.Und).String(strings.Join(snaked, "_"))
}

// SnakeCase converts a name in any casing convention to lower snake_case:
// "fooBar", "FooBar", "foo-bar" and "FOO_BAR" all become "foo_bar".
func SnakeCase(s string) string {
	lower := cases.Lower(language.Und)
	ws := words(s)
	for i, w := range ws {
		ws[i] = lower.String(w)
	}
	return strings.Join(ws, "_")
}

// words splits s at anything that is not a letter or digit, between letters and digits, where a lower case
// letter is followed by an upper case one, and before the last capital of an acronym that starts a new word
// ("XMLHttp" -> "XML", "Http").
func words(s string) []string {
	var out []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	rs := []rune(s)
	for i, r := range rs {

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}

		cur = append(cur, r)
	}
	flush()

	return out
}
