// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/config"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/db/searchdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/index"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/meghashyamc/protocolnav/services/view"
	"github.com/meghashyamc/protocolnav/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testDocuments = []corpus.Document{
	corpus.NewDocument("7-21", "Cardiac Arrest", "Begin CPR and attach the defibrillator. Warm patients as in 9.4.", "adult.pdf", []string{"adult", "medical"}),
	corpus.NewDocument("7-22", "CPR", "Compressions at a rate of 100 to 120 per minute.", "adult.pdf", []string{"adult"}),
	corpus.NewDocument("9-4", "Hypothermia", "Remove wet clothing. If pulseless see Cardiac Arrest.", "peds.pdf", []string{"pediatric", "medical"}),
	corpus.NewDocument("2-1", "Burns", "Cool the burn with running water.", "adult.pdf", []string{"adult", "trauma"}),
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      url.Values
	expectedStatus   int
	expectedIDs      []string
	expectedResponse map[string]any
}

func setupTestServer(t *testing.T, assert *require.Assertions) *gin.Engine {
	t.Helper()

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")
	categories, err := cfg.GetCategories()
	assert.NoError(err, "could not load categories")

	testLogger := logger.Discard()

	idx, err := corpus.NewIndex(testDocuments)
	assert.NoError(err, "could not build corpus index")

	kvDB, err := kvdb.Open(testLogger, filepath.Join(t.TempDir(), "kvdb", "test.db"))
	assert.NoError(err, "could not create kv database")

	searchDB, err := searchdb.New(testLogger)
	assert.NoError(err, "could not create search database")
	assert.NoError(searchDB.BuildIndex(searchdb.FromCorpus(idx.All())), "could not build search index")

	engine, err := search.NewEngine(idx, search.DefaultOptions())
	assert.NoError(err, "could not create search engine")

	categoryIDs := make([]string, 0, len(categories))
	for _, category := range categories {
		categoryIDs = append(categoryIDs, category.ID)
	}
	validator, err := validation.New(testLogger, categoryIDs)
	assert.NoError(err, "could not create validator")

	scanner := reference.NewScanner(testLogger, reference.PolicyLeftmostLongest, reference.DefaultMatchers(testLogger, true)...)
	references := reference.New(testLogger, idx, scanner, kvDB)
	searchService := search.New(testLogger, engine, idx, searchDB)

	ctx, cancel := context.WithCancel(context.Background())
	indexService := index.New(ctx, testLogger, idx, searchDB, references, kvDB, 2)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupCategories(router, categories)
	SetupSearch(router, testLogger, searchService, validator)
	SetupDocuments(router, testLogger, idx, references, validator)
	SetupView(router, testLogger, view.NewReducer(idx), searchService, references, validator)
	SetupIndex(router, testLogger, indexService, validator)

	t.Cleanup(func() {
		cancel()
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams url.Values) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?" + queryParams.Encode()
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

// decodeData unmarshals the data member of a response envelope into target.
func decodeData(assert *require.Assertions, responseBytes []byte, target any) {
	envelope := struct {
		Data   json.RawMessage `json:"data"`
		Errors []string        `json:"errors"`
	}{}
	assert.NoError(json.Unmarshal(responseBytes, &envelope), "could not unmarshal response envelope")
	assert.NoError(json.Unmarshal(envelope.Data, target), "could not unmarshal response data")
}

func documentIDs(results []search.Result) []string {
	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Document.ID)
	}
	return ids
}
