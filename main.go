package main

import (
	"context"
	"log"
	"os"
	"time"

	"energyrelay/internal/api"
	"energyrelay/internal/config"
	"energyrelay/internal/logging"
	"energyrelay/internal/pipeline"
	"energyrelay/internal/service/analysis"
	"energyrelay/internal/service/ocr"
	"energyrelay/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ENERGYRELAY_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.BasicConfig.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := uploads.NewStore(cfg.BasicConfig.UploadDir, logger.Named("uploads"))
	if err != nil {
		logger.Fatal("init upload store", zap.Error(err))
	}
	cleanCtx, cleanCancel := context.WithCancel(context.Background())
	defer cleanCancel()
	store.StartCleaner(cleanCtx,
		time.Duration(cfg.BasicConfig.TempCleanInterval)*time.Minute,
		time.Duration(cfg.BasicConfig.TempFileTTL)*time.Minute,
	)

	ocrClient := ocr.NewClient(cfg.Providers.OCR, nil, logger.Named("ocr"))
	chatModel, err := analysis.NewClaudeChatModel(context.Background(), cfg.Providers.Claude)
	if err != nil {
		logger.Fatal("init analysis model", zap.Error(err))
	}
	analyzer := analysis.NewClient(chatModel, logger.Named("analysis"))

	handlers := api.NewHandler(
		pipeline.New(ocrClient, analyzer, logger.Named("pipeline")),
		store,
		cfg.BasicConfig.AllowedOrigins,
		logger.Named("api"),
	)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":3000"
	}
	logger.Info("energy relay listening", zap.String("addr", addr), zap.String("upload_dir", store.Dir()))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
