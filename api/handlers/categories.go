package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/protocolnav/config"
)

func SetupCategories(router *gin.Engine, categories []config.Category) {
	router.GET("/categories", handleCategories(categories))
}

func handleCategories(categories []config.Category) gin.HandlerFunc {
	if categories == nil {
		categories = []config.Category{}
	}
	return func(c *gin.Context) {
		writeResponse(c, categories, http.StatusOK, nil)
	}
}
