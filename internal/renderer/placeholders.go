package renderer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dpshade/foam-notes/internal/errors"
)

// placeholderPattern matches ${NAME}, ${NAME:default} and bare $NAME.
// Bare tokens are limited to upper-case names so prose like "$5" or
// "$home" is left alone.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}|\$([A-Z_][A-Z0-9_]*)`)

// Token is one placeholder occurrence in a text
type Token struct {
	Name       string
	Default    string
	HasDefault bool
	Start, End int
}

// Scan returns every placeholder occurrence in text, in order
func Scan(text string) []Token {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tok := Token{Start: m[0], End: m[1]}
		if m[2] >= 0 {
			tok.Name = text[m[2]:m[3]]
			if m[4] >= 0 {
				tok.Default = text[m[4]:m[5]]
				tok.HasDefault = true
			}
		} else {
			tok.Name = text[m[6]:m[7]]
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Placeholders returns the distinct placeholder names across texts in order
// of first appearance
func Placeholders(texts ...string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, text := range texts {
		for _, tok := range Scan(text) {
			if !seen[tok.Name] {
				seen[tok.Name] = true
				names = append(names, tok.Name)
			}
		}
	}
	return names
}

// InlineDefaults collects the first ${NAME:default} literal for each name
func InlineDefaults(texts ...string) map[string]string {
	defaults := make(map[string]string)
	for _, text := range texts {
		for _, tok := range Scan(text) {
			if !tok.HasDefault {
				continue
			}
			if _, ok := defaults[tok.Name]; !ok {
				defaults[tok.Name] = tok.Default
			}
		}
	}
	return defaults
}

// Render substitutes every placeholder in text. It fails without producing
// output if any placeholder has no value, so a rendered note never carries
// unresolved tokens.
func Render(text string, values map[string]string) (string, error) {
	var missing []string
	seen := make(map[string]bool)
	for _, tok := range Scan(text) {
		if _, ok := values[tok.Name]; !ok && !seen[tok.Name] {
			seen[tok.Name] = true
			missing = append(missing, tok.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", errors.InternalError("unresolved placeholders").
			WithDetails(strings.Join(missing, ", "))
	}

	tokens := Scan(text)
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, tok := range tokens {
		b.WriteString(text[last:tok.Start])
		b.WriteString(values[tok.Name])
		last = tok.End
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func describe(name string) string {
	return fmt.Sprintf("Enter a value for %s", name)
}
