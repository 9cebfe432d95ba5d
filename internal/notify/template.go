package notify

import (
	"html"
	"regexp"
)

// Vars maps placeholder names to values.
type Vars map[string]string

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render substitutes {{name}} placeholders in tpl. Values come from vars,
// then from defaults; unknown placeholders become empty strings. When
// escape is set, values are HTML-escaped.
func Render(tpl string, vars, defaults Vars, escape bool) string {
	return placeholder.ReplaceAllStringFunc(tpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok || v == "" {
			v = defaults[name]
		}
		if escape {
			return html.EscapeString(v)
		}
		return v
	})
}
