package search

import (
	"math"
	"strings"
)

// epsilon stands in for a perfect field score so that perfect matches still order by weight.
const epsilon = 2.220446049250313e-16

// substringDistance returns the smallest edit distance between pattern and any substring of text
// (Sellers' algorithm). Both inputs must already be case folded.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}

	previous := make([]int, m+1)
	current := make([]int, m+1)
	for i := range previous {
		previous[i] = i
	}

	best := previous[m]
	for _, r := range text {
		current[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == r {
				cost = 0
			}
			current[i] = min(previous[i-1]+cost, previous[i]+1, current[i-1]+1)
		}
		best = min(best, current[m])
		if best == 0 {
			return 0
		}
		previous, current = current, previous
	}

	return best
}

// fieldScore is the share of the pattern that had to be edited to find it in text: 0 is an exact
// substring, 1 means nothing of it was found.
func fieldScore(pattern, text []rune) float64 {
	if len(pattern) == 0 {
		return 0
	}
	return float64(substringDistance(pattern, text)) / float64(len(pattern))
}

// fieldNorm shortens the reach of long fields: a hit in a one word title counts for more than the
// same hit in a long body.
func fieldNorm(text string) float64 {
	tokens := len(strings.Fields(text))
	if tokens == 0 {
		return 1
	}
	return 1 / math.Sqrt(float64(tokens))
}
