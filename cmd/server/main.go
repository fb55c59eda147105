package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geochat/internal/config"
	"geochat/internal/dataset"
	"geochat/internal/handler"
	"geochat/internal/repository"
	"geochat/internal/service"
	"geochat/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("GeoChat Places Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to the graph database
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Neo4j.Timeout)*time.Second)
	graph, err := repository.NewNeo4jRepository(ctx, &cfg.Neo4j)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer graph.Close(context.Background())

	log.Println("✅ Connected to Neo4j graph database")

	// Optional search/feedback log store
	var logs *repository.LogStore
	if cfg.Postgres.DSN != "" {
		logs, err = repository.NewLogStore(cfg.Postgres.DSN, cfg.Postgres.MaxConnections, cfg.Postgres.MaxIdleConnections)
		if err != nil {
			log.Printf("⚠️  Search logging disabled: %v", err)
			logs = nil
		} else {
			log.Println("✅ Connected to PostgreSQL log store")
			defer logs.Close()
		}
	} else {
		log.Println("⚠️  No DATABASE_URL configured - search logging is disabled")
	}

	// Initialize LLM client
	llmClient := service.NewLLMClient(&cfg.LLM)
	if cfg.LLM.Enabled {
		log.Printf("✅ LLM client initialized")
		log.Printf("   - API Base: %s", cfg.LLM.APIBase)
		log.Printf("   - Model: %s", cfg.LLM.Model)
		log.Printf("   - MaxTokens: %d", cfg.LLM.MaxTokens)
	} else {
		log.Println("⚠️  LLM is disabled - natural-language queries will not work")
		log.Println("   Set LLM_API_KEY environment variable to enable them")
	}

	// Initialize services
	datasets := dataset.NewRegistry(&cfg.Datasets)
	assistant := service.NewAssistant(llmClient, graph, datasets, logs)
	sessions := session.NewStore(time.Duration(cfg.Session.MaxAge) * time.Second)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(assistant, sessions, cfg.Session.CookieName, cfg.Session.MaxAge)
	mapHandler := handler.NewMapHandler(sessions, cfg.Session.CookieName, cfg.Session.MaxAge)
	feedbackHandler := handler.NewFeedbackHandler(logs)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "geochat",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.GET("/map-data", mapHandler.MapData)
		apiV1.POST("/viewport", mapHandler.Viewport)
		apiV1.POST("/reset", mapHandler.Reset)
		apiV1.POST("/feedback", feedbackHandler.Feedback)
	}

	// Start server
	addr := cfg.Addr()
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
