package app

import (
	"github.com/meghashyamc/protocolnav/config"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
)

// Core holds the read-only pieces built from the corpus at startup. They are shared by the HTTP
// server and the command line.
type Core struct {
	Index      *corpus.Index
	Engine     *search.Engine
	Scanner    *reference.Scanner
	Categories []config.Category
}

func NewCore(logger logger.Logger, cfg *config.Config) (*Core, error) {
	documents, err := corpus.LoadFile(cfg.GetCorpusPath())
	if err != nil {
		logger.Error("could not load corpus", "path", cfg.GetCorpusPath(), "err", err.Error())
		return nil, err
	}

	index, err := corpus.NewIndex(documents)
	if err != nil {
		logger.Error("could not index corpus", "err", err.Error())
		return nil, err
	}

	titleWeight, idWeight, bodyWeight := cfg.GetSearchWeights()
	engine, err := search.NewEngine(index, search.Options{
		Threshold: cfg.GetSearchThreshold(),
		Weights:   search.Weights{Title: titleWeight, ID: idWeight, Body: bodyWeight},
	})
	if err != nil {
		logger.Error("could not create search engine", "err", err.Error())
		return nil, err
	}

	policy, err := reference.ParsePolicy(cfg.GetReferencePolicy())
	if err != nil {
		logger.Error("could not read reference policy", "err", err.Error())
		return nil, err
	}
	scanner := reference.NewScanner(logger, policy, reference.DefaultMatchers(logger, cfg.GetNumericMatcherEnabled())...)

	categories, err := cfg.GetCategories()
	if err != nil {
		return nil, err
	}

	logger.Info("loaded corpus", "documents", index.Len(), "fingerprint", index.Fingerprint(), "scanner", scanner.Signature())

	return &Core{
		Index:      index,
		Engine:     engine,
		Scanner:    scanner,
		Categories: categories,
	}, nil
}

func (c *Core) CategoryIDs() []string {
	ids := make([]string, 0, len(c.Categories))
	for _, category := range c.Categories {
		ids = append(ids, category.ID)
	}
	return ids
}

// Search runs a fuzzy search without a full-text index, for callers outside the server.
func (c *Core) Search(logger logger.Logger) *search.Service {
	return search.New(logger, c.Engine, c.Index, nil)
}

// References returns an uncached reference service.
func (c *Core) References(logger logger.Logger) *reference.Service {
	return reference.New(logger, c.Index, c.Scanner, nil)
}
