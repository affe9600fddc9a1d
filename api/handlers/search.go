package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/meghashyamc/protocolnav/validation"
)

const defaultResultsPerPage = 20

type SearchRequest struct {
	Query      string   `form:"query" validate:"valid_query,max=1000"`
	Categories []string `form:"category" validate:"max=16,dive,valid_category"`
	Mode       string   `form:"mode" validate:"valid_mode"`
	PerPage    int      `form:"per_page" validate:"min=0,max=100"`
	Page       int      `form:"page" validate:"min=0,max=100000"`
}

func (r *SearchRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

type SearchResponse struct {
	Results     []search.Result `json:"results"`
	PageDetails Pagination      `json:"page_details"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))

}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		mode, err := search.ParseMode(request.Mode)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit := request.PerPage
		offset := (request.Page - 1) * request.PerPage
		results, err := service.Search(c.Request.Context(), request.Query, request.Categories, mode, limit, offset)
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		searchResponse := SearchResponse{
			Results: results.Results,
			PageDetails: calculatePagination(
				results.Total,
				limit,
				offset),
		}

		c.Header(HeaderPaginationTotalCount, strconv.Itoa(results.Total))
		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
