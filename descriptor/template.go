package descriptor

import (
	"net/url"
	"strings"

	"github.com/kbukum/structrest/errors"
)

// Template is a parsed URL template: literal text with {name} placeholders.
// Doubled braces ({{ and }}) stand for literal braces.
type Template struct {
	raw      string
	segments []segment
	names    []string
}

type segment struct {
	literal string
	param   string
}

// ParseTemplate parses a URL template. Unterminated, empty or stray
// placeholders are declaration errors.
func ParseTemplate(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var lit strings.Builder
	seen := map[string]bool{}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, errors.InvalidDeclaration("url %q: unterminated placeholder at offset %d", raw, i)
			}
			name := strings.TrimSpace(raw[i+1 : i+1+end])
			if name == "" {
				return nil, errors.InvalidDeclaration("url %q: empty placeholder at offset %d", raw, i)
			}
			if strings.ContainsAny(name, "{") {
				return nil, errors.InvalidDeclaration("url %q: nested placeholder at offset %d", raw, i)
			}
			if lit.Len() > 0 {
				t.segments = append(t.segments, segment{literal: lit.String()})
				lit.Reset()
			}
			t.segments = append(t.segments, segment{param: name})
			if !seen[name] {
				seen[name] = true
				t.names = append(t.names, name)
			}
			i += end + 1
		case c == '}':
			return nil, errors.InvalidDeclaration("url %q: unmatched '}' at offset %d", raw, i)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}
	return t, nil
}

// Names returns the placeholder names in order of first appearance.
func (t *Template) Names() []string { return t.names }

// String returns the template as declared.
func (t *Template) String() string { return t.raw }

// Expand substitutes path values. Values are escaped as single path segments.
func (t *Template) Expand(values map[string]string) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.param == "" {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(url.PathEscape(values[s.param]))
	}
	return b.String()
}
