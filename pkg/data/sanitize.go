package data

import (
	"errors"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// SanitizeAnswer extracts the JSON object from a model answer, which may wrap
// it in a code fence or surrounding prose. Tool inputs nest braces, so the
// fallback scans for the first balanced object instead of matching flat ones.
func SanitizeAnswer(ans string) (string, error) {
	if m := fenceRe.FindStringSubmatch(ans); m != nil {
		ans = m[1]
	}

	start := strings.IndexByte(ans, '{')
	if start < 0 {
		return "", errors.New("no json object in answer")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(ans); i++ {
		c := ans[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return ans[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced json object in answer")
}
