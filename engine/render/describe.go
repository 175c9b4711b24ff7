package render

import (
	"regexp"
	"strings"
)

// maxDescriptionLen is the display truncation in characters (code points).
const maxDescriptionLen = 150

var (
	bracketQuoteRe = regexp.MustCompile(`^\[['"]?(.+?)['"]?\]$`)
	outerQuoteRe   = regexp.MustCompile(`^['"](.+?)['"]$`)
)

// normalizeDescription cleans a raw description for display. Descriptions
// frequently arrive as serialized list literals ("['foo', 'bar']"); those
// are parsed and joined. Anything left bracketed or quoted after that is
// stripped by pattern, whitespace is collapsed, and the text is truncated
// to maxDescriptionLen. The second return reports whether truncation
// actually removed content.
func normalizeDescription(raw string) (string, bool) {
	desc := raw

	trimmed := strings.TrimSpace(desc)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		if parts, ok := parseListLiteral(trimmed); ok {
			var kept []string
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					kept = append(kept, p)
				}
			}
			desc = strings.TrimSpace(strings.Join(kept, " "))
		}
	}

	if desc == "" {
		return "", false
	}

	// Fallback stripping for descriptions the literal parser rejected.
	if strings.HasPrefix(desc, "[") && strings.HasSuffix(desc, "]") {
		desc = bracketQuoteRe.ReplaceAllString(desc, "$1")
	}
	desc = outerQuoteRe.ReplaceAllString(desc, "$1")

	desc = strings.Join(strings.Fields(desc), " ")

	runes := []rune(desc)
	if len(runes) > maxDescriptionLen {
		return string(runes[:maxDescriptionLen]), true
	}
	// A collapsed length of exactly maxDescriptionLen still gets the
	// ellipsis, mirroring the display contract.
	return desc, len(runes) == maxDescriptionLen
}

// parseListLiteral parses a bracketed list of quoted strings, e.g.
// ['a', "b"]. Escaped quotes inside elements are honored. Returns false for
// anything that is not a flat list of strings.
func parseListLiteral(s string) ([]string, bool) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, true
	}

	var parts []string
	i := 0
	for {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t' || inner[i] == '\n') {
			i++
		}
		if i >= len(inner) {
			return nil, false // trailing comma with nothing after it
		}

		quote := inner[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(inner) {
			c := inner[i]
			if c == '\\' && i+1 < len(inner) {
				b.WriteByte(inner[i+1])
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			b.WriteByte(c)
			i++
		}
		if !closed {
			return nil, false
		}
		parts = append(parts, b.String())

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t' || inner[i] == '\n') {
			i++
		}
		if i >= len(inner) {
			return parts, true
		}
		if inner[i] != ',' {
			return nil, false
		}
		i++
		// A trailing comma before the closing bracket is fine.
		rest := strings.TrimSpace(inner[i:])
		if rest == "" {
			return parts, true
		}
	}
}
