// Package glob implements the restricted glob dialect used by the scanner
// rules: '*' matches within a single path segment, '**' matches any number
// of segments (including zero), and '?' matches a single character.
//
// Patterns are anchored at both ends and compared against POSIX-style
// relative paths. This is deliberately not a full POSIX glob: there are no
// character classes and no brace expansion.
package glob

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Match reports whether relPath matches pattern. A malformed pattern never
// matches; no error is surfaced to the caller. The empty pattern matches
// only the empty path.
func Match(relPath, pattern string) bool {
	rel := filepath.ToSlash(relPath)
	pat := filepath.ToSlash(pattern)

	re, err := regexp.Compile(ToRegexp(pat))
	if err != nil {
		return false
	}

	return re.MatchString(rel)
}

// MatchAny reports whether relPath matches at least one of the patterns.
// Blank patterns are ignored.
func MatchAny(relPath string, patterns []string) bool {
	for _, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			continue
		}

		if Match(relPath, pat) {
			return true
		}
	}

	return false
}

// ToRegexp translates a glob pattern into an anchored regular expression
// source string: '**' becomes '.*', a lone '*' becomes '[^/]*', '?' becomes
// '.', and every other rune is escaped literally.
func ToRegexp(pattern string) string {
	var b strings.Builder

	b.WriteString("^")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++

				continue
			}

			b.WriteString("[^/]*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}

	b.WriteString("$")

	return b.String()
}
