package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"voxmaati/internal/app"
	"voxmaati/internal/config"
	"voxmaati/internal/server"
	"voxmaati/internal/storage"
	"voxmaati/internal/transcribe"
	"voxmaati/internal/translate"
	"voxmaati/internal/util"
)

func main() {
	path := os.Getenv("VOX_CONFIG_PATH")
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	objects, err := storage.NewMinioStore(
		cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
		cfg.StorageBucket, cfg.StorageUseSSL)
	if err != nil {
		log.Fatalf("failed to init object store: %v", err)
	}

	appCore, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		Objects:     objects,
		Transcriber: transcribe.NewWhisperTranscriber(transcribe.Config{
			BaseURL: cfg.WhisperBaseURL,
			APIKey:  cfg.WhisperAPIKey,
			Model:   cfg.WhisperModel,
			Timeout: time.Duration(cfg.WhisperTimeoutSeconds) * time.Second,
		}),
		Translator:              translate.NewClient(cfg.TranslateURL),
		MaxAudioSizeMB:          cfg.MaxAudioSizeMB,
		MaxAudioDurationSeconds: cfg.MaxAudioDurationSeconds,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                      appCore,
		AppName:                  cfg.AppName,
		Environment:              cfg.Environment,
		StorageEndpoint:          cfg.StorageEndpoint,
		StorageBucket:            cfg.StorageBucket,
		MaxAudioSizeMB:           cfg.MaxAudioSizeMB,
		RedisAddr:                cfg.RedisAddr,
		RedisPassword:            cfg.RedisPassword,
		UploadRateLimitPerMinute: cfg.UploadRateLimitPerMinute,
		TrustedProxyCIDRs:        cfg.TrustedProxyCIDRs,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("voice api listening",
		"addr", addr,
		"environment", cfg.Environment,
		"bucket", cfg.StorageBucket,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
