package panel

import (
	"regexp"
	"strings"
)

// Compile a shell wildcard into an anchored expression. Unlike path.Match,
// '*' also matches path separators.
func wildcard(pattern string) (*regexp.Regexp, error) {
	runes := []rune(pattern)

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end == len(runes) {
				b.WriteString(`\[`)
				continue
			}
			class := string(runes[i+1 : end])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Match reports whether path contains any of the space separated words of
// pattern. Words may use shell wildcards. An empty pattern matches
// everything.
func Match(pattern, path string) bool {
	words := strings.Fields(pattern)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		re, err := wildcard("*" + w + "*")
		if err != nil {
			continue
		}
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
