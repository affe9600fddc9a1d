package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/validation"
)

type DocumentRequest struct {
	ID string `uri:"id" json:"id" validate:"required,valid_document_id"`
}

type DocumentResponse struct {
	Document corpus.Document     `json:"document"`
	Segments []reference.Segment `json:"segments"`
}

func SetupDocuments(router *gin.Engine, logger logger.Logger, index *corpus.Index, references *reference.Service, validator *validation.Validator) {
	router.GET("/documents", handleListDocuments(index))
	router.GET("/documents/:id", handleGetDocument(references, logger, validator))
}

func handleListDocuments(index *corpus.Index) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, index.All(), http.StatusOK, nil)
	}
}

func handleGetDocument(references *reference.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := DocumentRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract document id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract document id"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		documentResponse, statusCode, err := linkifiedDocument(c, references, request.ID)
		if err != nil {
			logger.Warn("could not get document", "id", request.ID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		writeResponse(c, documentResponse, http.StatusOK, nil)
	}
}

func linkifiedDocument(c *gin.Context, references *reference.Service, id string) (*DocumentResponse, int, error) {
	doc, err := references.Document(id)
	if err != nil {
		return nil, http.StatusNotFound, reference.ErrDocumentNotFound
	}

	segments, err := references.Linkify(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, reference.ErrDocumentNotFound) {
			return nil, http.StatusNotFound, reference.ErrDocumentNotFound
		}
		return nil, http.StatusInternalServerError, err
	}

	return &DocumentResponse{Document: doc, Segments: segments}, http.StatusOK, nil
}
