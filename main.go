package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
	"transcript-insights-api/analyzer"
	"transcript-insights-api/handlers"
	"transcript-insights-api/subscriber"
	"transcript-insights-api/utils"

	valkeystore "transcript-insights-api/valkey"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	settings, err := utils.LoadSettings(logger)
	if err != nil {
		sugar.Fatalw("failed to load settings",
			"error", err)
	}

	ai, err := analyzer.NewGeminiClient(context.Background(), logger, settings.GeminiAPIKey, settings.GeminiModel)
	if err != nil {
		sugar.Fatalw("failed to init analysis client",
			"error", err)
	}

	// Cache, database and object storage are all optional; the service
	// degrades to analyze-and-return when a backend is absent.
	if valkeystore.Configured() {
		valkeystore.InitValkey(logger)
	} else {
		sugar.Info("Result cache disabled (VALKEY_HOST not set)")
	}

	if utils.DBConfigured() {
		if err := utils.InitDB(logger); err != nil {
			sugar.Fatalw("failed to init database",
				"error", err)
		}
		defer utils.CloseDB(logger)

		if err := utils.CreateSchema(logger); err != nil {
			sugar.Fatalw("failed to create database schema",
				"error", err)
		}
	} else {
		sugar.Info("Persistence disabled (POSTGRES_HOST not set)")
	}

	if utils.S3Configured() {
		if err := utils.InitS3(logger); err != nil {
			sugar.Fatalw("failed to init s3",
				"error", err)
		}
	} else {
		sugar.Info("Transcript archive disabled (S3_ACCESS_KEY_ID not set)")
	}

	// Re-analysis needs both the archive (for the bytes) and pub/sub.
	if valkeystore.RawClient != nil && utils.S3Client != nil {
		subscriber.StartSubscribers(logger, ai)
	}

	// Setup HTTP server
	r := gin.New()
	sugar.Info("Creating router")

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Routes
	r.POST("/transcripts/process", handlers.HandleProcessTranscript(logger, settings, ai))
	r.GET("/transcripts/list", handlers.HandleListAnalyses(logger))
	r.GET("/transcripts/:id", handlers.HandleGetAnalysis(logger))
	r.DELETE("/transcripts/:id", handlers.HandleDeleteAnalysis(logger))
	r.POST("/transcripts/trigger/:id", handlers.HandleTriggerReanalysis(logger))

	// Operational endpoints
	r.GET("/healthcheck", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.GET("/db-status", handlers.HandleDBStatus())
	r.GET("/metrics", handlers.HandleMetrics())

	sugar.Infow("Running on port",
		"port", settings.Port)
	r.Run(fmt.Sprintf(":%s", settings.Port))
}
