package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/stretchr/testify/require"
)

func TestHandleListDocuments(t *testing.T) {
	assert := require.New(t)
	router := setupTestServer(t, assert)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/documents", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)

	var documents []corpus.Document
	decodeData(assert, w.Body.Bytes(), &documents)
	assert.Equal(testDocuments, documents)
}

func TestHandleGetDocument(t *testing.T) {
	testCases := []testCase{
		{name: "KnownDocument", expectedStatus: http.StatusOK, expectedIDs: []string{"7-21"}},
		{name: "UnknownDocument", expectedStatus: http.StatusNotFound, expectedIDs: []string{"0-0"}},
		{name: "IDTooLong", expectedStatus: http.StatusNotAcceptable, expectedIDs: []string{strings.Repeat("7", 200)}},
	}

	assert := require.New(t)
	router := setupTestServer(t, assert)

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(router, assert, http.MethodGet, "/documents/"+testCase.expectedIDs[0], nil, nil, nil)
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
		})
	}
}

func TestHandleGetDocumentSegments(t *testing.T) {
	assert := require.New(t)
	router := setupTestServer(t, assert)

	for i := 0; i < 2; i++ {
		w := makeTestHTTPRequest(router, assert, http.MethodGet, "/documents/7-21", nil, nil, nil)
		assert.Equal(http.StatusOK, w.Code)

		documentResponse := DocumentResponse{}
		decodeData(assert, w.Body.Bytes(), &documentResponse)

		assert.Equal(testDocuments[0], documentResponse.Document)
		assert.Equal([]reference.Segment{
			{Text: "Begin "},
			{Text: "CPR", TargetID: "7-22"},
			{Text: " and attach the defibrillator. Warm patients as in "},
			{Text: "9.4", TargetID: "9-4"},
			{Text: "."},
		}, documentResponse.Segments)
	}
}
