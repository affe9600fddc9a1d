package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var viewHandlerTestCases = []testCase{
	{
		name:           "NoRequestBody",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    nil,
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "MissingEventType",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"state": map[string]any{}, "event": map[string]any{}},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "UnknownEventType",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"event": map[string]any{"type": "zoom"}},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "UnknownCategoryInState",
		requestHeaders: defaultTestRequestHeaders,
		requestBody: map[string]any{
			"state": map[string]any{"categories": []string{"obstetric"}},
			"event": map[string]any{"type": "back"},
		},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "ToggleCategoryLists",
		requestHeaders: defaultTestRequestHeaders,
		requestBody: map[string]any{
			"state": map[string]any{"categories": []string{"adult"}},
			"event": map[string]any{"type": "toggle_category", "category": "trauma"},
		},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"2-1"},
	},
	{
		name:           "BackLists",
		requestHeaders: defaultTestRequestHeaders,
		requestBody: map[string]any{
			"state": map[string]any{"selected_id": "7-21", "categories": []string{"medical"}},
			"event": map[string]any{"type": "back"},
		},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"7-21", "9-4"},
	},
}

func TestHandleView(t *testing.T) {
	assert := require.New(t)
	router := setupTestServer(t, assert)

	for _, testCase := range viewHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(router, assert, http.MethodPost, "/view", testCase.requestHeaders, testCase.requestBody, nil)
			responseBytes := w.Body.Bytes()
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", string(responseBytes)))

			if testCase.expectedStatus != http.StatusOK {
				return
			}

			viewResponse := ViewResponse{}
			decodeData(assert, responseBytes, &viewResponse)
			assert.Equal(testCase.expectedIDs, documentIDs(viewResponse.Results))
			assert.Nil(viewResponse.Document)
		})
	}
}

func TestHandleViewSelectDocument(t *testing.T) {
	assert := require.New(t)
	router := setupTestServer(t, assert)

	requestBody := map[string]any{
		"state": map[string]any{"query": "cardiac", "categories": []string{"adult"}},
		"event": map[string]any{"type": "select_document", "document_id": "9-4"},
	}
	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/view", defaultTestRequestHeaders, requestBody, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())

	viewResponse := ViewResponse{}
	decodeData(assert, w.Body.Bytes(), &viewResponse)

	assert.Equal("9-4", viewResponse.State.SelectedID)
	assert.Equal("", viewResponse.State.Query)
	assert.Empty(viewResponse.State.Categories)
	assert.NotNil(viewResponse.Document)
	assert.Equal("Hypothermia", viewResponse.Document.Title)
	assert.Len(viewResponse.Segments, 3)
	assert.Equal("7-21", viewResponse.Segments[1].TargetID)
	assert.Empty(viewResponse.Results)
}
