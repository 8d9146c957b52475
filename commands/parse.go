package commands

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Tokenize splits input on whitespace into a lower-cased command and its
// arguments. The boolean is false for blank input
func Tokenize(input string) (string, []string, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil, false
	}

	return strings.ToLower(parts[0]), parts[1:], true
}

// maxSuggestDistance bounds how many edits away a typo may be from a command
const maxSuggestDistance = 2

// suggest finds the command closest to an unknown one, or "" when nothing is close
func suggest(unknown string, names []string) string {
	ranks := fuzzy.RankFindNormalizedFold(unknown, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, name := range names {
		distance := fuzzy.LevenshteinDistance(unknown, name)
		if distance < bestDistance {
			best = name
			bestDistance = distance
		}
	}
	return best
}
