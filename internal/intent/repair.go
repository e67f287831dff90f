package intent

import (
	"encoding/json"
	"strings"
)

// Repair extracts a well-formed intent from raw classifier output.
//
// The model is probabilistic and routinely wraps its JSON in code
// fences, prose or stray comments. Repair maximizes extraction from
// imperfect output and fails closed: it returns nil rather than a
// partially-formed intent. Steps, in order:
//
//  1. drop fenced code-block markers
//  2. drop // line and /* */ block comments outside string literals
//  3. slice from the first '{' to the last '}' inclusive, discarding
//     surrounding prose
//  4. parse the slice; nil if parsing fails or the acao discriminator
//     is absent
//
// A parseable object whose acao value is unrecognized maps to the
// Unknown variant, not nil.
func Repair(raw string) *Intent {
	text := stripFences(raw)
	text = stripComments(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil
	}
	slice := text[start : end+1]

	var env envelope
	if err := json.Unmarshal([]byte(slice), &env); err != nil {
		return nil
	}
	if strings.TrimSpace(env.Action) == "" {
		return nil
	}
	return fromEnvelope(env)
}

// stripFences removes ``` markers and their optional language tag.
func stripFences(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// stripComments removes // line comments and /* */ block comments that
// leaked into the output, leaving quoted strings untouched.
func stripComments(s string) string {
	var b strings.Builder
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // skip closing '/'
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
