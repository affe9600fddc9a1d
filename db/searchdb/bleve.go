package searchdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/protocolnav/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldID         = "id"
	indexFieldTitle      = "title"
	indexFieldBody       = "body"
	indexFieldCategories = "categories"
)

type BleveDB struct {
	logger logger.Logger
	index  bleve.Index
}

// New opens an in-memory index. The corpus is small and reloaded on every start, so nothing is
// kept on disk.
func New(logger logger.Logger) (*BleveDB, error) {
	index, err := bleve.NewMemOnly(createIndexMapping())
	if err != nil {
		logger.Error("could not create index", "err", err.Error())
		return nil, err
	}
	return &BleveDB{logger: logger, index: index}, nil
}

func (b *BleveDB) BuildIndex(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		err := batch.Index(doc.ID, doc)
		if err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		if (i+1)%IndexingBatchSize == 0 {
			err = b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Ids and categories are matched exactly
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldID, idFieldMapping)

	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldCategories, categoriesFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = standard.Name
	bodyFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(indexFieldBody, bodyFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Search runs a full-text query restricted to documents carrying every one of categories.
// Hits are ordered by descending bleve score, ties by id.
func (b *BleveDB) Search(queryString string, categories []string, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(queryString, categories), limit, offset, false)
	searchRequest.SortBy([]string{"-_score", "_id"})

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		hits[i] = Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
	}

	return &Response{
		Hits:       hits,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}, nil
}

func buildSearchQuery(queryString string, categories []string) query.Query {

	const (
		boostForTitle       = 3.0
		boostForID          = 2.5
		boostForBody        = 1.0
		boostForPhraseMatch = 2.0
		fuzziness           = 1
	)

	queryString = strings.ToLower(strings.TrimSpace(queryString))

	var textQuery query.Query
	if queryString == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		disjunctQuery := bleve.NewDisjunctionQuery()

		titleQuery := bleve.NewMatchQuery(queryString)
		titleQuery.SetField(indexFieldTitle)
		titleQuery.SetFuzziness(fuzziness)
		titleQuery.SetBoost(boostForTitle)
		disjunctQuery.AddQuery(titleQuery)

		idQuery := bleve.NewTermQuery(queryString)
		idQuery.SetField(indexFieldID)
		idQuery.SetBoost(boostForID)
		disjunctQuery.AddQuery(idQuery)

		bodyQuery := bleve.NewMatchQuery(queryString)
		bodyQuery.SetField(indexFieldBody)
		bodyQuery.SetFuzziness(fuzziness)
		bodyQuery.SetBoost(boostForBody)
		disjunctQuery.AddQuery(bodyQuery)

		phraseQuery := bleve.NewMatchPhraseQuery(queryString)
		phraseQuery.SetField(indexFieldBody)
		phraseQuery.SetBoost(boostForPhraseMatch)
		disjunctQuery.AddQuery(phraseQuery)

		textQuery = disjunctQuery
	}

	if len(categories) == 0 {
		return textQuery
	}

	conjunctQuery := bleve.NewConjunctionQuery(textQuery)
	for _, category := range categories {
		categoryQuery := bleve.NewTermQuery(category)
		categoryQuery.SetField(indexFieldCategories)
		conjunctQuery.AddQuery(categoryQuery)
	}
	return conjunctQuery
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
