package reference

import (
	"unicode"
	"unicode/utf8"

	"github.com/meghashyamc/protocolnav/corpus"
)

// NumericMatcher links numeric tokens such as "7", "2.2" or "7.21.3" to the document whose id is
// the token itself or the token with dots replaced by hyphens.
type NumericMatcher struct{}

func NewNumericMatcher() *NumericMatcher {
	return &NumericMatcher{}
}

func (m *NumericMatcher) Name() string {
	return string(MatchKindNumeric)
}

func (m *NumericMatcher) Match(doc corpus.Document, idx *corpus.Index) []Candidate {
	var candidates []Candidate
	body := doc.Body

	for _, token := range numericTokens(body) {
		text := body[token.start:token.end]
		targetID, ok := idx.ResolveNumeric(text)
		if !ok || targetID == doc.ID {
			continue
		}
		candidates = append(candidates, Candidate{
			Start:       token.start,
			Length:      token.end - token.start,
			TargetID:    targetID,
			DisplayText: text,
			Kind:        MatchKindNumeric,
		})
	}

	return candidates
}

type numericToken struct {
	start int
	end   int
}

// numericTokens returns every maximal digits(.digits)* run that stands alone as a word. A trailing
// dot ends the token rather than joining it. Runs glued to letters, digits or underscores on
// either side ("v2", "7a", "2.1x") are not tokens.
func numericTokens(text string) []numericToken {
	var tokens []numericToken

	for i := 0; i < len(text); {
		if !isDigit(text[i]) {
			i++
			continue
		}

		start := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		for i+1 < len(text) && text[i] == '.' && isDigit(text[i+1]) {
			i++
			for i < len(text) && isDigit(text[i]) {
				i++
			}
		}

		if gluedToWord(text, start, i) {
			continue
		}
		tokens = append(tokens, numericToken{start: start, end: i})
	}

	return tokens
}

func gluedToWord(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if isNumericWordRune(before) {
			return true
		}
	}
	if end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isNumericWordRune(after) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumericWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
