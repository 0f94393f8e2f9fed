package main

import (
	"context"
	"log"
	"os"

	"season-quiz-backend/internal/config"
	"season-quiz-backend/internal/database"
	"season-quiz-backend/internal/handlers"
	"season-quiz-backend/internal/ingest"
	"season-quiz-backend/internal/middleware"
	"season-quiz-backend/internal/services"
	"season-quiz-backend/internal/ws"

	_ "season-quiz-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Season Quiz API
// @version         1.0
// @description     API for timed quiz seasons with one-shot question attempts
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	seasonService := services.NewSeasonService(db)
	questionService := services.NewQuestionService(db, seasonService)
	ingestService := services.NewIngestService(db, rdb, ingest.PlainTextRecognizer{}, hub)

	authHandler := handlers.NewAuthHandler(authService)
	seasonHandler := handlers.NewSeasonHandler(seasonService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	ingestHandler := handlers.NewIngestHandler(ingestService, hub, cfg.UploadDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestService.Run(ctx)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/jobs/:jobId", ingestHandler.HandleJobWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)

			auth.POST("/update-password", middleware.JWTAuth(authService), authHandler.UpdatePassword)
			auth.GET("/profile", middleware.JWTAuth(authService), authHandler.Profile)
		}

		seasons := api.Group("/seasons")
		seasons.Use(middleware.JWTAuth(authService))
		{
			seasons.GET("", seasonHandler.ListSeasons)
			seasons.GET("/user/progress", seasonHandler.GetUserProgress)
			seasons.GET("/:id", seasonHandler.GetSeason)
			seasons.POST("/:id/start", seasonHandler.StartSeason)
			seasons.POST("/:id/complete", seasonHandler.CompleteSeason)

			seasons.POST("", middleware.RequireAdmin(), seasonHandler.CreateSeason)
			seasons.PATCH("/:id", middleware.RequireAdmin(), seasonHandler.UpdateSeason)
			seasons.DELETE("/:id", middleware.RequireAdmin(), seasonHandler.DeleteSeason)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService))
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.GET("/user/progress", questionHandler.GetUserProgress)
			questions.GET("/season/:seasonId", questionHandler.GetSeasonQuestions)
			questions.GET("/:id", questionHandler.GetQuestion)
			questions.POST("/:id/attempt", questionHandler.SubmitAnswer)

			questions.POST("", middleware.RequireAdmin(), questionHandler.CreateQuestion)
			questions.PUT("/:id", middleware.RequireAdmin(), questionHandler.UpdateQuestion)
			questions.DELETE("/:id", middleware.RequireAdmin(), questionHandler.DeleteQuestion)
		}

		pdf := api.Group("/pdf-processor")
		pdf.Use(middleware.JWTAuth(authService), middleware.RequireAdmin())
		{
			pdf.POST("/upload", ingestHandler.Upload)
			pdf.GET("/status/:jobId", ingestHandler.Status)
			pdf.GET("/download/:jobId", ingestHandler.Download)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
