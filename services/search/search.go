package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/searchdb"
	"github.com/meghashyamc/protocolnav/logger"
)

type Mode string

const (
	ModeFuzzy    Mode = "fuzzy"
	ModeFulltext Mode = "fulltext"
)

var (
	ErrUnknownMode         = errors.New("unknown search mode")
	ErrFulltextUnavailable = errors.New("full-text search is not available")
)

func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "", ModeFuzzy:
		return ModeFuzzy, nil
	case ModeFulltext:
		return ModeFulltext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

type Service struct {
	logger   logger.Logger
	engine   *Engine
	index    *corpus.Index
	fulltext searchdb.DB
}

// New returns a search service. fulltext may be nil, in which case only fuzzy search is served.
func New(logger logger.Logger, engine *Engine, index *corpus.Index, fulltext searchdb.DB) *Service {
	return &Service{
		logger:   logger,
		engine:   engine,
		index:    index,
		fulltext: fulltext,
	}
}

// Search returns one page of results. An empty query always lists the filtered corpus in order,
// whatever the mode.
func (s *Service) Search(ctx context.Context, query string, categories []string, mode Mode, limit int, offset int) (*Response, error) {
	if mode == ModeFulltext && strings.TrimSpace(query) != "" {
		return s.searchFulltext(query, categories, limit, offset)
	}

	results, err := s.engine.Search(ctx, query, categories)
	if err != nil {
		s.logger.Warn("search aborted", "query", query, "err", err.Error())
		return nil, err
	}

	return &Response{
		Results: page(results, limit, offset),
		Total:   len(results),
	}, nil
}

func (s *Service) searchFulltext(query string, categories []string, limit int, offset int) (*Response, error) {
	if s.fulltext == nil {
		return nil, ErrFulltextUnavailable
	}

	offset = max(offset, 0)
	if limit <= 0 {
		limit = s.index.Len()
	}

	response, err := s.fulltext.Search(query, categories, limit, offset)
	if err != nil {
		s.logger.Error("full-text search failed", "query", query, "err", err.Error())
		return nil, err
	}

	results := make([]Result, 0, len(response.Hits))
	for _, hit := range response.Hits {
		doc, ok := s.index.ByID(hit.ID)
		if !ok {
			s.logger.Warn("full-text index returned an unknown document", "id", hit.ID)
			continue
		}
		// bleve scores grow with relevance; results here are ordered lower is better.
		results = append(results, Result{Document: doc, Score: 1 / (1 + hit.Score)})
	}

	return &Response{
		Results: results,
		Total:   int(response.Total),
	}, nil
}

func page(results []Result, limit int, offset int) []Result {
	offset = max(offset, 0)
	if offset >= len(results) {
		return []Result{}
	}
	end := len(results)
	if limit > 0 {
		end = min(end, offset+limit)
	}
	return results[offset:end]
}
