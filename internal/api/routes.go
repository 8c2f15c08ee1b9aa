package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/predict", handler.Predict)
		api.POST("/predict/batch", handler.PredictBatch)
		api.GET("/areas", handler.GetAreas)
		api.GET("/areas/nearby", handler.GetNearestArea)
		api.GET("/property-types", handler.GetPropertyTypes)
		api.GET("/registration-types", handler.GetRegistrationTypes)
		api.GET("/validation/rules", handler.GetValidationRules)
		api.GET("/model/info", handler.GetModelInfo)
		api.GET("/history", handler.GetHistory)
		api.GET("/history/stats", handler.GetHistoryStats)
		api.GET("/health", handler.HealthCheck)
	}
}
