package router

import (
	"github.com/gin-gonic/gin"
	"github.com/playware/internal/handler"
)

// SetupRouter configures the gin engine and routes.
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		owners := apiGroup.Group("/owners/:kind/:id")
		{
			owners.GET("/images", api.ListOwnerImages)
			owners.POST("/images", api.UploadOwnerImages)
			owners.PUT("/images/reorder", api.ReorderOwnerImages)
		}

		apiGroup.PUT("/images/:id", api.UpdateImage)
		apiGroup.DELETE("/images/:id", api.DeleteImage)

		apiGroup.POST("/maintenance/reconcile", api.RunReconcile)
	}

	return r
}
