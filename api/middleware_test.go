package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	type testCase struct {
		name       string
		header     string
		keepHeader bool
	}

	testCases := []testCase{
		{name: "no header", header: "", keepHeader: false},
		{name: "valid uuid is kept", header: "0b5f8a76-8f1e-4c37-9d5a-2c1b0a3e4f51", keepHeader: true},
		{name: "anything else is replaced", header: "abc", keepHeader: false},
	}

	gin.SetMode(gin.TestMode)
	router := newRouter()
	router.GET("/health", health())

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			assert.NoError(err)
			if testCase.header != "" {
				req.Header.Set(HeaderRequestID, testCase.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(http.StatusOK, w.Code)
			requestID := w.Header().Get(HeaderRequestID)
			_, err = uuid.Parse(requestID)
			assert.NoError(err)
			if testCase.keepHeader {
				assert.Equal(testCase.header, requestID)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	assert := require.New(t)
	gin.SetMode(gin.TestMode)
	router := newRouter()

	req, err := http.NewRequest(http.MethodOptions, "/search", nil)
	assert.NoError(err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusNoContent, w.Code)
	assert.Contains(w.Header().Get("Access-Control-Expose-Headers"), "X-Pagination-Total-Count")
}
