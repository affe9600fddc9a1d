package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/index"
	"github.com/meghashyamc/protocolnav/validation"
)

type IndexResponse struct {
	ID string `json:"id"`
}

type IndexStatusRequest struct {
	RequestID string `uri:"request_id" json:"request_id" validate:"required,uuid4"`
}

type IndexStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

func SetupIndex(router *gin.Engine, logger logger.Logger, service *index.Service, validator *validation.Validator) {
	router.POST("/index", handleIndex(service, logger))
	router.GET("/index/:request_id", handleIndexStatus(service, logger, validator))

}

func handleIndex(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		if err := service.Build(requestID); err != nil {
			logger.Warn("could not start index build", "err", err.Error())
			c.Abort()
			statusCode := http.StatusInternalServerError
			switch {
			case errors.Is(err, index.ErrBuildInProgress):
				statusCode = http.StatusConflict
			case errors.Is(err, index.ErrServiceStopped):
				statusCode = http.StatusServiceUnavailable
			}
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		writeResponse(c, IndexResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

// handleIndexStatus answers 202 while a build runs, 200 once it completed and 500 if it failed.
func handleIndexStatus(service *index.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := IndexStatusRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract request id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request id"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate index status request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		progress, err := service.GetStatus(request.RequestID)
		if err != nil {
			c.Abort()
			if errors.Is(err, kvdb.ErrNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{"request not found"})
				return
			}
			logger.Error("could not get index status", "request_id", request.RequestID, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		statusResponse := IndexStatusResponse{ID: request.RequestID, Progress: progress}
		switch progress {
		case index.ProgressStatusComplete:
			writeResponse(c, statusResponse, http.StatusOK, nil)
		case index.ProgressStatusFailed:
			writeResponse(c, statusResponse, http.StatusInternalServerError, []string{"build failed"})
		default:
			writeResponse(c, statusResponse, http.StatusAccepted, nil)
		}
	}
}
