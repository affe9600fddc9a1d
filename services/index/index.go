package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/db/searchdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/panjf2000/ants/v2"
)

// Indexer represents the search database operations needed for a build
type Indexer interface {
	BuildIndex(documents []searchdb.Document) error
}

// Precomputer stores the references of one document ahead of the first request for it
type Precomputer interface {
	Precompute(id string) error
}

type StatusStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

var (
	ErrBuildInProgress = errors.New("build already in progress")
	ErrServiceStopped  = errors.New("index service stopped")
)

const (
	ProgressStatusQueued   = 0
	ProgressStatusIndexed  = 10
	ProgressStatusComplete = 100
	ProgressStatusFailed   = -1

	progressUpdates = 10
	maxBuildTime    = 10 * time.Minute
)

type Service struct {
	ctx         context.Context
	logger      logger.Logger
	index       *corpus.Index
	indexer     Indexer
	references  Precomputer
	statusStore StatusStore
	workers     int
	running     atomic.Bool
	buildC      chan string
}

func New(ctx context.Context, logger logger.Logger, index *corpus.Index, indexer Indexer, references Precomputer, statusStore StatusStore, workers int) *Service {
	indexService := &Service{
		ctx:         ctx,
		logger:      logger,
		index:       index,
		indexer:     indexer,
		references:  references,
		statusStore: statusStore,
		workers:     max(workers, 1),
		buildC:      make(chan string, 1),
	}

	go indexService.build(ctx)
	return indexService
}

// Build queues a full build: the full-text index first, then the references of every document.
// Only one build runs at a time.
func (s *Service) Build(requestID string) error {
	if s.ctx.Err() != nil {
		return ErrServiceStopped
	}
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("request to build while a build is already in progress", "request_id", requestID)
		return ErrBuildInProgress
	}

	s.setRequestStatus(requestID, ProgressStatusQueued)
	s.buildC <- requestID
	return nil
}

// GetStatus retrieves the progress of a build, from 0 to 100, or -1 if it failed
func (s *Service) GetStatus(requestID string) (int, error) {
	value, err := s.statusStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

func (s *Service) build(ctx context.Context) {

	for {
		select {
		case requestID := <-s.buildC:
			buildCtx, cancel := context.WithTimeout(ctx, maxBuildTime)
			s.doBuild(buildCtx, requestID)
			cancel()
			s.running.Store(false)
		case <-ctx.Done():
			s.logger.Info("index service stopped", "reason", ctx.Err())
			// A request queued while stopping will never run.
			select {
			case requestID := <-s.buildC:
				s.setRequestStatus(requestID, ProgressStatusFailed)
			default:
			}
			return
		}
	}
}

func (s *Service) doBuild(ctx context.Context, requestID string) {
	start := time.Now()
	documents := s.index.All()
	s.logger.Info("building index", "request_id", requestID, "documents", len(documents))

	if err := s.indexer.BuildIndex(searchdb.FromCorpus(documents)); err != nil {
		s.logger.Error("failed to build full-text index", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return
	}
	s.setRequestStatus(requestID, ProgressStatusIndexed)

	if err := s.precompute(ctx, requestID, documents); err != nil {
		s.logger.Error("failed to precompute references", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return
	}

	s.setRequestStatus(requestID, ProgressStatusComplete)
	s.logger.Info("finished building index", "request_id", requestID, "took", time.Since(start).String())
}

// precompute scans every document on a worker pool. Results are collected here so progress is
// written by one goroutine only.
func (s *Service) precompute(ctx context.Context, requestID string, documents []corpus.Document) error {
	if len(documents) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	resultC := make(chan error, len(documents))
	for _, doc := range documents {
		id := doc.ID
		submitErr := pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				resultC <- err
				return
			}
			resultC <- s.references.Precompute(id)
		})
		if submitErr != nil {
			resultC <- fmt.Errorf("failed to schedule %s: %w", id, submitErr)
		}
	}

	every := max(len(documents)/progressUpdates, 1)
	failed := 0
	for done := 1; done <= len(documents); done++ {
		if err := <-resultC; err != nil {
			failed++
			s.logger.Warn("could not precompute references", "request_id", requestID, "err", err.Error())
		}
		if done%every == 0 {
			s.setRequestStatus(requestID, getProgressPercentage(done, len(documents), ProgressStatusIndexed, ProgressStatusComplete-1))
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(documents))
	}
	return nil
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if err := s.statusStore.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)

}
