package reference

import (
	"fmt"
	"slices"
)

// Span is anything occupying a half-open [start, end) range of a text.
type Span interface {
	Bounds() (start int, end int)
}

// Policy decides which of several overlapping spans survives.
type Policy string

const (
	// PolicyLeftmostLongest sweeps left to right; at equal starts the longer span wins.
	PolicyLeftmostLongest Policy = "leftmost-longest"
	// PolicyLongestFirst accepts spans longest first, skipping any span touching an already
	// covered position.
	PolicyLongestFirst Policy = "longest-first"
)

func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "", PolicyLeftmostLongest:
		return PolicyLeftmostLongest, nil
	case PolicyLongestFirst:
		return PolicyLongestFirst, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", name)
	}
}

// Resolve reduces possibly overlapping spans to a non-overlapping set ordered by start.
// Empty spans are dropped. The input slice is not modified.
func Resolve[S Span](spans []S, policy Policy) []S {
	candidates := make([]S, 0, len(spans))
	for _, span := range spans {
		if start, end := span.Bounds(); start >= 0 && end > start {
			candidates = append(candidates, span)
		}
	}

	if policy == PolicyLongestFirst {
		return resolveLongestFirst(candidates)
	}
	return resolveLeftmostLongest(candidates)
}

func resolveLeftmostLongest[S Span](candidates []S) []S {
	slices.SortStableFunc(candidates, func(a, b S) int {
		aStart, aEnd := a.Bounds()
		bStart, bEnd := b.Bounds()
		if aStart != bStart {
			return aStart - bStart
		}
		return (bEnd - bStart) - (aEnd - aStart)
	})

	accepted := make([]S, 0, len(candidates))
	lastAcceptedEnd := 0
	for _, candidate := range candidates {
		start, end := candidate.Bounds()
		if start < lastAcceptedEnd {
			continue
		}
		accepted = append(accepted, candidate)
		lastAcceptedEnd = end
	}
	return accepted
}

func resolveLongestFirst[S Span](candidates []S) []S {
	slices.SortStableFunc(candidates, func(a, b S) int {
		aStart, aEnd := a.Bounds()
		bStart, bEnd := b.Bounds()
		if aLen, bLen := aEnd-aStart, bEnd-bStart; aLen != bLen {
			return bLen - aLen
		}
		return aStart - bStart
	})

	limit := 0
	for _, candidate := range candidates {
		_, end := candidate.Bounds()
		limit = max(limit, end)
	}
	covered := make([]bool, limit)

	accepted := make([]S, 0, len(candidates))
	for _, candidate := range candidates {
		start, end := candidate.Bounds()
		if slices.Contains(covered[start:end], true) {
			continue
		}
		for i := start; i < end; i++ {
			covered[i] = true
		}
		accepted = append(accepted, candidate)
	}

	slices.SortStableFunc(accepted, func(a, b S) int {
		aStart, _ := a.Bounds()
		bStart, _ := b.Bounds()
		return aStart - bStart
	})
	return accepted
}
