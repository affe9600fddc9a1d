package reference

import (
	"unicode"
	"unicode/utf8"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
)

// TitleMatcher finds whole-word, case-insensitive mentions of other documents' titles.
type TitleMatcher struct {
	logger logger.Logger
}

func NewTitleMatcher(logger logger.Logger) *TitleMatcher {
	return &TitleMatcher{logger: logger}
}

func (m *TitleMatcher) Name() string {
	return string(MatchKindTitle)
}

func (m *TitleMatcher) Match(doc corpus.Document, idx *corpus.Index) []Candidate {
	var candidates []Candidate
	body := doc.Body

	for _, entry := range idx.Titles() {
		if entry.ID == doc.ID {
			continue
		}
		if !utf8.ValidString(entry.Title) {
			m.logger.Warn("skipping title that is not valid UTF-8", "target_id", entry.ID, "document_id", doc.ID)
			continue
		}
		candidates = append(candidates, matchTitle(body, entry)...)
	}

	return candidates
}

func matchTitle(body string, entry corpus.TitleEntry) []Candidate {
	var candidates []Candidate
	first, _ := utf8.DecodeRuneInString(entry.Title)

	for start := 0; start < len(body); {
		r, size := utf8.DecodeRuneInString(body[start:])
		if equalFoldRune(r, first) {
			if n, ok := foldPrefixLen(body[start:], entry.Title); ok && isWordBoundary(body, start, start+n) {
				candidates = append(candidates, Candidate{
					Start:       start,
					Length:      n,
					TargetID:    entry.ID,
					DisplayText: body[start : start+n],
					Kind:        MatchKindTitle,
				})
			}
		}
		start += size
	}

	return candidates
}

// foldPrefixLen reports whether s starts with prefix under simple Unicode case folding, and how
// many bytes of s the match covers (which can differ from len(prefix)).
func foldPrefixLen(s, prefix string) (int, bool) {
	n := 0
	for _, want := range prefix {
		if n >= len(s) {
			return 0, false
		}
		got, size := utf8.DecodeRuneInString(s[n:])
		if !equalFoldRune(got, want) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// isWordBoundary reports whether [start, end) of text is delimited on both sides by the text edge
// or by a character that cannot continue a word. Hyphens continue words.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if isTitleWordRune(before) {
			return false
		}
	}
	if end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isTitleWordRune(after) {
			return false
		}
	}
	return true
}

func isTitleWordRune(r rune) bool {
	return r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
