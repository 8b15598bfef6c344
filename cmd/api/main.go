package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/alfredoptarigan/resume-match/internal/config"
	"github.com/alfredoptarigan/resume-match/internal/handlers"
	"github.com/alfredoptarigan/resume-match/internal/repositories"
	"github.com/alfredoptarigan/resume-match/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Audit log is optional; the pipeline runs without it
	var analysisRepo repositories.AnalysisRepository
	if cfg.Audit.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		analysisRepo = repositories.NewAnalysisRepository(db)
		log.Println("✅ Analysis audit log enabled")
	}

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	documentParser := services.NewDocumentParserService()
	limiter := services.NewInputLimiter(cfg.Analysis.MaxInputChars)
	log.Println("✅ Services initialized successfully")

	// A missing key leaves the client uninitialized instead of stopping the process
	geminiService := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	log.Printf("✅ Gemini AI client status: %s", geminiService.Status())

	analyzerService := services.NewAnalyzerService(geminiService, limiter, analysisRepo)

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(
		storageService,
		documentParser,
		analyzerService,
		cfg.Storage.MaxFileSize,
	)
	healthHandler := handlers.NewHealthHandler(geminiService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Match Analyzer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * cfg.Gemini.Timeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app, analyzeHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
