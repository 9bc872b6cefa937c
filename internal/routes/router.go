package routes

import (
	"github.com/gin-gonic/gin"

	"vetify-crm/internal/middleware"
)

// SetupRoutes registra toda la superficie HTTP de la aplicación.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		RegisterCajaRoutes(authorized)
	}
}
