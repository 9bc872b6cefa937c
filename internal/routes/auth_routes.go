package routes

import (
	"github.com/gin-gonic/gin"

	"vetify-crm/internal/handlers"
)

func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
}
