package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/userdir-dev/userdir/internal/api"
	"github.com/userdir-dev/userdir/internal/notify"
	"github.com/userdir-dev/userdir/pkg/userdir"
)

func main() {
	// A missing .env file is fine; env vars win either way.
	_ = godotenv.Load()

	dataDir := envOr("USERDIR_DATA_DIR", "./data")
	httpPort := envOr("USERDIR_HTTP_PORT", "7080")

	logger, err := buildLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	svc, err := userdir.Open(dataDir,
		userdir.WithLogger(logger),
		userdir.WithNotifier(notify.NewLogNotifier(logger)),
	)
	if err != nil {
		logger.Fatal("failed to open directory", zap.Error(err))
	}
	logger.Info("directory opened",
		zap.String("data_dir", dataDir),
		zap.Int("users", len(svc.List())))

	if os.Getenv("USERDIR_DEV") != "true" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	h := &api.Handler{Store: svc}
	h.Register(r.Group("/api"))

	// Graceful shutdown: finish pending snapshot writes before exiting.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received, flushing snapshots")
		svc.Wait()
		logger.Info("snapshots flushed, exiting")
		// os.Exit skips the deferred Sync; flush here.
		_ = logger.Sync()
		os.Exit(0)
	}()

	logger.Info("http api listening", zap.String("port", httpPort))
	if err := r.Run(":" + httpPort); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("USERDIR_DEV") == "true" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
