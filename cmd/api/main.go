package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const maxUploadBytes = 50 * 1024 * 1024

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	defer log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database initialized")

	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	emailRepo := repositories.NewRejectionEmailRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RequestTimeout)
	if err != nil {
		log.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	log.Info("Gemini initialized")

	// Context retrieval is optional: without a Qdrant URL, scoring runs on
	// the full job description alone.
	var retriever services.ContextRetriever
	if cfg.Qdrant.URL != "" {
		retriever, err = services.NewQdrantRetriever(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatal("failed to initialize Qdrant retriever", zap.Error(err))
		}
		log.Info("Qdrant retriever initialized", zap.String("collection", cfg.Qdrant.Collection))
	} else {
		log.Info("Qdrant URL not set, context retrieval disabled")
	}

	extractor := services.NewTextExtractor()
	scorer := services.NewScorer(cfg.Screening, geminiService, log)
	enhancer := services.NewShortlistEnhancer(geminiService, cfg.Worker.Concurrency, log)
	composer := services.NewRejectionComposer(geminiService, cfg.Worker.Concurrency, log)

	orchestrator := services.NewOrchestrator(
		cfg.Worker,
		extractor,
		scorer,
		enhancer,
		composer,
		retriever,
		log,
	)
	log.Info("screening pipeline initialized", zap.Int("concurrency", cfg.Worker.Concurrency))

	screenHandler := handlers.NewScreenHandler(orchestrator, jobRepo, cfg.Screening.MaxBatchSize, log)
	jobHandler := handlers.NewJobHandler(jobRepo, candidateRepo, emailRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    maxUploadBytes,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	protected := api.Group("", handlers.JWTAuth(cfg.Auth.JWTSecret))
	protected.Post("/screen", screenHandler.HandleScreen)
	protected.Get("/jobs", jobHandler.HandleHistory)
	protected.Get("/jobs/:id", jobHandler.HandleDetails)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
