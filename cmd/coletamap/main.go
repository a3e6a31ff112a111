package main

import (
	"log"
	"log/slog"

	"github.com/dponte/coletamap/internal/auth"
	"github.com/dponte/coletamap/internal/blob"
	localblob "github.com/dponte/coletamap/internal/blob/local"
	s3blob "github.com/dponte/coletamap/internal/blob/s3"
	"github.com/dponte/coletamap/internal/config"
	"github.com/dponte/coletamap/internal/db"
	"github.com/dponte/coletamap/internal/events"
	"github.com/dponte/coletamap/internal/logging"
	"github.com/dponte/coletamap/internal/service"
	"github.com/dponte/coletamap/internal/store"
	"github.com/dponte/coletamap/internal/suggest"
	claudesuggest "github.com/dponte/coletamap/internal/suggest/claude"
	"github.com/dponte/coletamap/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		return
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userStore := store.NewUserStore(database)
	propertyStore := store.NewPropertyStore(database)
	photoStore := store.NewPhotoStore(database)

	blobs := newBlobStore(cfg, logger)
	if blobs == nil {
		return
	}

	authenticator := auth.NewPasswordAuthenticator(userStore)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	hub := events.NewHub(logger)

	propertyService := service.NewPropertyService(
		propertyStore, photoStore, blobs, hub, cfg.PublicBaseURL, logger)

	server := web.NewServer(
		authenticator, jwtManager, propertyService, blobs, hub,
		newSuggester(cfg, logger), cfg.MapboxToken, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newBlobStore(cfg *config.Config, logger *slog.Logger) blob.Store {
	switch cfg.BlobBackend {
	case "s3":
		logger.Info("using s3 photo storage", "bucket", cfg.S3Bucket)
		blobs, err := s3blob.NewS3Store(s3blob.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			logger.Error("failed to initialize s3 photo storage", "error", err)
			return nil
		}
		return blobs
	default:
		logger.Info("using local photo storage", "path", cfg.BlobLocalPath)
		blobs, err := localblob.NewLocalStore(cfg.BlobLocalPath)
		if err != nil {
			logger.Error("failed to initialize local photo storage", "error", err)
			return nil
		}
		return blobs
	}
}

func newSuggester(cfg *config.Config, logger *slog.Logger) suggest.Suggester {
	if cfg.AnthropicKey == "" {
		logger.Info("observation suggestions disabled")
		return nil
	}
	logger.Info("observation suggestions enabled", "model", cfg.SuggestModel)
	return claudesuggest.NewClaudeSuggester(cfg.AnthropicKey, cfg.SuggestModel)
}
