package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/api/handlers"
	"github.com/meghashyamc/protocolnav/services/view"
)

func (s *server) setupRoutes(router *gin.Engine) {
	router.GET("/health", health())

	handlers.SetupCategories(router, s.categories)
	handlers.SetupSearch(router, s.logger, s.searchService, s.validator)
	handlers.SetupDocuments(router, s.logger, s.index, s.references, s.validator)
	handlers.SetupView(router, s.logger, view.NewReducer(s.index), s.searchService, s.references, s.validator)
	handlers.SetupIndex(router, s.logger, s.indexService, s.validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())

	return router
}
