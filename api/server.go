package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/protocolnav/app"
	"github.com/meghashyamc/protocolnav/config"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/db/searchdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/index"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/meghashyamc/protocolnav/validation"
)

type server struct {
	cfg           *config.Config
	router        *gin.Engine
	httpServer    *http.Server
	kvdb          kvdb.DB
	searchdb      searchdb.DB
	validator     *validation.Validator
	logger        logger.Logger
	index         *corpus.Index
	categories    []config.Category
	searchService *search.Service
	references    *reference.Service
	indexService  *index.Service
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()
	errC := s.setupHTTPServer()
	s.startInitialBuild()

	return s.setupGracefulShutdown(ctx, errC)
}

func (s *server) setupDependencies(ctx context.Context) error {
	core, err := app.NewCore(s.logger, s.cfg)
	if err != nil {
		return err
	}
	s.index = core.Index
	s.categories = core.Categories

	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		s.kvdb.Close()
		return err
	}
	s.validator, err = validation.New(s.logger, core.CategoryIDs())
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		s.closeStores()
		return err
	}

	s.searchService = search.New(s.logger, core.Engine, core.Index, s.searchdb)
	s.references = reference.New(s.logger, core.Index, core.Scanner, s.kvdb)
	s.indexService = index.New(ctx, s.logger, core.Index, s.searchdb, s.references, s.kvdb, s.cfg.GetIndexWorkers())

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	s.setupRoutes(router)

	s.router = router
}

func (s *server) setupHTTPServer() <-chan error {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server failed", "err", err.Error())
			errC <- err
		}
	}()
	return errC
}

// startInitialBuild fills the full-text index and the reference cache right away, so that the
// first requests do not pay for it.
func (s *server) startInitialBuild() {
	requestID := uuid.New().String()
	if err := s.indexService.Build(requestID); err != nil {
		s.logger.Warn("could not start initial build", "err", err.Error())
		return
	}
	s.logger.Info("started initial build", "request_id", requestID)
}

func (s *server) setupGracefulShutdown(ctx context.Context, errC <-chan error) error {

	var serveErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
		case serveErr = <-errC:
		}
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		defer s.closeStores()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
	return serveErr
}

func (s *server) closeStores() {
	if err := s.searchdb.Close(); err != nil {
		s.logger.Error("error closing searchDB", "err", err.Error())
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err.Error())
	}
}
