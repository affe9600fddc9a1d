package reference

import (
	"strings"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
)

// Matcher produces candidate references for one document body. Matchers must never return a
// candidate targeting the scanned document itself.
type Matcher interface {
	Name() string
	Match(doc corpus.Document, idx *corpus.Index) []Candidate
}

// Scanner pools the candidates of every configured matcher and resolves them together, so title
// and numeric matches compete for the same text.
type Scanner struct {
	logger   logger.Logger
	policy   Policy
	matchers []Matcher
}

func NewScanner(logger logger.Logger, policy Policy, matchers ...Matcher) *Scanner {
	return &Scanner{
		logger:   logger,
		policy:   policy,
		matchers: matchers,
	}
}

// DefaultMatchers returns the title matcher, followed by the numeric matcher when enabled.
func DefaultMatchers(logger logger.Logger, numeric bool) []Matcher {
	matchers := []Matcher{NewTitleMatcher(logger)}
	if numeric {
		matchers = append(matchers, NewNumericMatcher())
	}
	return matchers
}

// Signature identifies the scanner configuration; linkify results are only reusable between
// scanners with the same signature.
func (s *Scanner) Signature() string {
	names := make([]string, 0, len(s.matchers))
	for _, matcher := range s.matchers {
		names = append(names, matcher.Name())
	}
	return string(s.policy) + ":" + strings.Join(names, "+")
}

// Scan returns every candidate from every matcher, unresolved.
func (s *Scanner) Scan(doc corpus.Document, idx *corpus.Index) []Candidate {
	var candidates []Candidate
	for _, matcher := range s.matchers {
		found := matcher.Match(doc, idx)
		s.logger.Debug("matcher finished", "matcher", matcher.Name(), "document_id", doc.ID, "candidates", len(found))
		candidates = append(candidates, found...)
	}
	return candidates
}

// Resolve returns the non-overlapping references of doc, ordered by position.
func (s *Scanner) Resolve(doc corpus.Document, idx *corpus.Index) []Candidate {
	return Resolve(s.Scan(doc, idx), s.policy)
}

// Linkify splits the body of doc into literal and reference segments. Concatenating the segment
// texts gives back the body unchanged.
func (s *Scanner) Linkify(doc corpus.Document, idx *corpus.Index) []Segment {
	return buildSegments(doc.Body, s.Resolve(doc, idx))
}

func buildSegments(body string, accepted []Candidate) []Segment {
	segments := make([]Segment, 0, 2*len(accepted)+1)
	cursor := 0

	for _, candidate := range accepted {
		start, end := candidate.Bounds()
		if start > cursor {
			segments = append(segments, Segment{Text: body[cursor:start]})
		}
		segments = append(segments, Segment{Text: body[start:end], TargetID: candidate.TargetID})
		cursor = end
	}

	if cursor < len(body) {
		segments = append(segments, Segment{Text: body[cursor:]})
	}

	return segments
}
