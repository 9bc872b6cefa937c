package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vetify-crm/config"
	"vetify-crm/internal/handlers"
	"vetify-crm/internal/jobs"
	"vetify-crm/internal/middleware"
	"vetify-crm/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No se encontró archivo .env; se usan las variables del entorno")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	config.ConnectDB()
	config.ConnectRedis()
	config.InitAuth()

	r := gin.Default()

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	allowedOrigins := []string{"http://localhost:5173"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		allowedOrigins = strings.Split(v, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	go handlers.GlobalCajaHub.Run()

	routes.SetupRoutes(r)

	scheduler := jobs.StartScheduler()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Servidor iniciado", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("El servidor terminó con error", "error", err)
		os.Exit(1)
	}
}
