package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/logger"
)

// Service answers reference lookups for documents of one corpus. Results are cached in the
// references bucket of store when a store is given.
type Service struct {
	logger  logger.Logger
	index   *corpus.Index
	scanner *Scanner
	store   kvdb.DB
}

func New(logger logger.Logger, index *corpus.Index, scanner *Scanner, store kvdb.DB) *Service {
	return &Service{
		logger:  logger,
		index:   index,
		scanner: scanner,
		store:   store,
	}
}

func (s *Service) Document(id string) (corpus.Document, error) {
	doc, ok := s.index.ByID(id)
	if !ok {
		return corpus.Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// Linkify returns the segments of the document with the given id, from the cache when possible.
func (s *Service) Linkify(ctx context.Context, id string) ([]Segment, error) {
	doc, err := s.Document(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if segments, ok := s.cached(id); ok {
		return segments, nil
	}

	segments := s.scanner.Linkify(doc, s.index)
	s.remember(id, segments)
	return segments, nil
}

// Precompute scans the document with the given id and stores the result, replacing any cached one.
func (s *Service) Precompute(id string) error {
	doc, err := s.Document(id)
	if err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	return s.put(id, s.scanner.Linkify(doc, s.index))
}

func (s *Service) cacheKey(id string) string {
	return s.index.Fingerprint() + ":" + s.scanner.Signature() + ":" + id
}

func (s *Service) cached(id string) ([]Segment, bool) {
	if s.store == nil {
		return nil, false
	}

	value, err := s.store.Get(kvdb.ReferencesBucket, s.cacheKey(id))
	if err != nil {
		if !errors.Is(err, kvdb.ErrNotFound) {
			s.logger.Warn("failed to read cached references", "document_id", id, "err", err.Error())
		}
		return nil, false
	}

	var segments []Segment
	if err := json.Unmarshal([]byte(value), &segments); err != nil {
		s.logger.Warn("discarding unreadable cached references", "document_id", id, "err", err.Error())
		return nil, false
	}
	return segments, true
}

func (s *Service) remember(id string, segments []Segment) {
	if s.store == nil {
		return
	}
	if err := s.put(id, segments); err != nil {
		s.logger.Warn("failed to cache references", "document_id", id, "err", err.Error())
	}
}

func (s *Service) put(id string, segments []Segment) error {
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("failed to marshal references for %s: %w", id, err)
	}
	if err := s.store.Set(kvdb.ReferencesBucket, s.cacheKey(id), string(data)); err != nil {
		return fmt.Errorf("failed to cache references for %s: %w", id, err)
	}
	return nil
}
