package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/meghashyamc/protocolnav/corpus"
	"golang.org/x/text/cases"
)

var ErrInvalidOptions = errors.New("invalid search options")

// Weights gives the relative importance of each searched field. Only the ratios matter.
type Weights struct {
	Title float64
	ID    float64
	Body  float64
}

type Options struct {
	// Threshold is the worst field score still counted as a match, between 0 and 1.
	Threshold float64
	Weights   Weights
}

func DefaultOptions() Options {
	return Options{
		Threshold: 0.4,
		Weights: Weights{
			Title: 0.6,
			ID:    0.5,
			Body:  0.2,
		},
	}
}

func (o Options) validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v is outside [0, 1]", ErrInvalidOptions, o.Threshold)
	}
	w := o.Weights
	if w.Title < 0 || w.ID < 0 || w.Body < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidOptions)
	}
	if w.Title+w.ID+w.Body == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidOptions)
	}
	return nil
}

type Result struct {
	Document corpus.Document `json:"document"`
	// Score is lower for better matches; 0 when the query was empty.
	Score float64 `json:"score"`
}

type preparedField struct {
	text   []rune
	weight float64
	norm   float64
}

type preparedDocument struct {
	document corpus.Document
	fields   []preparedField
}

// Engine ranks documents of one corpus against free-text queries. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	documents []preparedDocument
	threshold float64
}

func NewEngine(idx *corpus.Index, opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	total := opts.Weights.Title + opts.Weights.ID + opts.Weights.Body
	fold := cases.Fold()

	engine := &Engine{
		documents: make([]preparedDocument, 0, idx.Len()),
		threshold: opts.Threshold,
	}
	for _, doc := range idx.All() {
		prepared := preparedDocument{document: doc}
		for _, field := range []struct {
			value  string
			weight float64
		}{
			{doc.Title, opts.Weights.Title},
			{doc.ID, opts.Weights.ID},
			{doc.Body, opts.Weights.Body},
		} {
			if strings.TrimSpace(field.value) == "" {
				continue
			}
			folded := fold.String(field.value)
			prepared.fields = append(prepared.fields, preparedField{
				text:   []rune(folded),
				weight: field.weight / total,
				norm:   fieldNorm(folded),
			})
		}
		engine.documents = append(engine.documents, prepared)
	}

	return engine, nil
}

// Search returns the documents carrying every required category that match query, best first.
// Ties keep corpus order. An empty query returns every document passing the filter, in corpus
// order. The only error is the context's, checked between documents.
func (e *Engine) Search(ctx context.Context, query string, required []string) ([]Result, error) {
	query = strings.TrimSpace(query)
	pattern := []rune(cases.Fold().String(query))

	results := make([]Result, 0)
	for _, prepared := range e.documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !prepared.document.HasCategories(required) {
			continue
		}
		if len(pattern) == 0 {
			results = append(results, Result{Document: prepared.document})
			continue
		}
		if score, ok := e.score(pattern, prepared); ok {
			results = append(results, Result{Document: prepared.document, Score: score})
		}
	}

	if len(pattern) > 0 {
		slices.SortStableFunc(results, func(a, b Result) int {
			switch {
			case a.Score < b.Score:
				return -1
			case a.Score > b.Score:
				return 1
			default:
				return 0
			}
		})
	}

	return results, nil
}

func (e *Engine) score(pattern []rune, prepared preparedDocument) (float64, bool) {
	total := 1.0
	matched := false

	for _, field := range prepared.fields {
		score := fieldScore(pattern, field.text)
		if score > e.threshold {
			continue
		}
		matched = true
		total *= math.Pow(max(score, epsilon), field.weight*field.norm)
	}

	return total, matched
}
