package main

import (
	"fmt"
	"log"

	"prokura/internal/classifier"
	"prokura/internal/config"
	"prokura/internal/extractor/openai"
	"prokura/internal/handler"
	"prokura/internal/pipeline"
	"prokura/internal/repository/memory"
	"prokura/internal/router"
	"prokura/internal/sanitizer"
	"prokura/internal/schema"
	"prokura/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Classifier artifacts are loaded once and never mutated; their
	// absence is startup-fatal, not a per-request error.
	clf, err := classifier.Load(cfg.Classifier.VectorizerPath, cfg.Classifier.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load classifier artifacts: %w", err)
	}

	validator, err := schema.NewValidator(cfg.Validator.Tolerance)
	if err != nil {
		return fmt.Errorf("failed to compile record schema: %w", err)
	}

	san := sanitizer.New(sanitizer.Config{
		MaxChars: cfg.Sanitizer.MaxChars,
		MaxPages: cfg.Sanitizer.MaxPages,
	})
	completion := openai.NewClient(&cfg.Extractor)
	pipe := pipeline.New(san, completion, validator, clf)

	requestRepo := memory.NewRequestRepo()
	requestSvc := service.NewRequestService(requestRepo)

	extractionH := handler.NewExtractionHandler(pipe)
	requestH := handler.NewRequestHandler(requestSvc)
	healthH := handler.NewHealthHandler(clf)

	r := router.Setup(cfg.CORS.AllowedOrigins, extractionH, requestH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
