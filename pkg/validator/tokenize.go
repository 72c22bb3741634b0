package validator

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/davejbarnes/pyngctl/pkg/schema"
)

// maxSuggestDistance bounds the edit distance of a "did you mean" suggestion.
const maxSuggestDistance = 2

// Token is one command-line argument split into switch and raw value.
type Token struct {
	Switch string
	Value  string
}

// Tokenize splits arg on the first "=". Without "=" the value is
// schema.NoValue.
func Tokenize(arg string) Token {
	sw, v, ok := strings.Cut(arg, "=")
	if !ok {
		return Token{Switch: arg, Value: schema.NoValue}
	}
	return Token{Switch: sw, Value: v}
}

// suggest returns the closest declared switch within maxSuggestDistance,
// preferring declaration order on ties.
func suggest(s *schema.Schema, unknown string) string {
	if unknown == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, name := range s.Names() {
		d := levenshtein.ComputeDistance(unknown, name)
		if d < bestDist && d < len(unknown) {
			best, bestDist = name, d
		}
	}
	return best
}
