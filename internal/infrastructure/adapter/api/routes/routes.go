package routes

import (
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/handler"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	lockHandler *handler.LockHandler,
	credentialHandler *handler.CredentialHandler,
	trailerHandler *handler.TrailerHandler,
	systemHandler *handler.SystemHandler,
) {
	api := router.Group("/api")
	{
		// Trailer CRUD
		api.GET("/trailers", trailerHandler.List)
		api.POST("/trailers", trailerHandler.Create)
		api.GET("/trailers/:id", trailerHandler.Get)
		api.PUT("/trailers/:id", trailerHandler.Update)
		api.DELETE("/trailers/:id", trailerHandler.Delete)

		// Lock registry
		api.POST("/trailers/:id/lock", lockHandler.Assign)
		api.GET("/trailers/:id/lock", lockHandler.Get)
		api.DELETE("/trailers/:id/lock", lockHandler.Remove)

		// Reservation credentials
		api.POST("/reservations/:id/refreshPin", credentialHandler.RefreshPin)
		api.POST("/reservations/createPin", credentialHandler.CreatePin)
		api.GET("/reservations/:id/pin", credentialHandler.GetActivePin)

		// Provider device inventory
		api.GET("/devices", systemHandler.ListDevices)
	}

	router.GET("/health", systemHandler.Health)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
