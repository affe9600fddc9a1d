package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/meghashyamc/protocolnav/services/view"
	"github.com/meghashyamc/protocolnav/validation"
)

type ViewState struct {
	Query      string   `json:"query" validate:"valid_query,max=1000"`
	Categories []string `json:"categories" validate:"max=16,dive,valid_category"`
	SelectedID string   `json:"selected_id" validate:"valid_document_id"`
}

type ViewEvent struct {
	Type       string `json:"type" validate:"required"`
	Query      string `json:"query" validate:"valid_query,max=1000"`
	Category   string `json:"category" validate:"omitempty,valid_category"`
	DocumentID string `json:"document_id" validate:"valid_document_id"`
}

type ViewRequest struct {
	State ViewState `json:"state"`
	Event ViewEvent `json:"event"`
}

// ViewResponse carries the next state and what to show for it: a listing, or a single document.
type ViewResponse struct {
	State    view.State          `json:"state"`
	Results  []search.Result     `json:"results,omitempty"`
	Document *corpus.Document    `json:"document,omitempty"`
	Segments []reference.Segment `json:"segments,omitempty"`
}

func SetupView(router *gin.Engine, logger logger.Logger, reducer *view.Reducer, searchService *search.Service, references *reference.Service, validator *validation.Validator) {
	router.POST("/view", handleView(reducer, searchService, references, logger, validator))
}

func handleView(reducer *view.Reducer, searchService *search.Service, references *reference.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ViewRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected view request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate view request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		state, err := reducer.Reduce(request.State.toState(), request.Event.toEvent())
		if err != nil {
			logger.Warn("could not apply view event", "event", request.Event.Type, "err", err.Error())
			c.Abort()
			statusCode := http.StatusInternalServerError
			if errors.Is(err, view.ErrUnknownEvent) || errors.Is(err, view.ErrInvalidEvent) {
				statusCode = http.StatusNotAcceptable
			}
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		viewResponse := ViewResponse{State: state}
		if state.HasSelection() {
			documentResponse, statusCode, err := linkifiedDocument(c, references, state.SelectedID)
			if err != nil {
				logger.Error("could not get selected document", "id", state.SelectedID, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, statusCode, []string{err.Error()})
				return
			}
			viewResponse.Document = &documentResponse.Document
			viewResponse.Segments = documentResponse.Segments
		} else {
			results, err := searchService.Search(c.Request.Context(), state.Query, state.Categories, search.ModeFuzzy, 0, 0)
			if err != nil {
				logger.Error("search failed", "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
				return
			}
			viewResponse.Results = results.Results
		}

		writeResponse(c, viewResponse, http.StatusOK, nil)
	}
}

func (s ViewState) toState() view.State {
	return view.State{
		Query:      s.Query,
		Categories: s.Categories,
		SelectedID: s.SelectedID,
	}
}

func (e ViewEvent) toEvent() view.Event {
	return view.Event{
		Type:       view.EventType(e.Type),
		Query:      e.Query,
		Category:   e.Category,
		DocumentID: e.DocumentID,
	}
}
