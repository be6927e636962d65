package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/api"
	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/ledger"
	nsmetrics "github.com/yourorg/notespot/internal/metrics"
	"github.com/yourorg/notespot/internal/storage"
	"github.com/yourorg/notespot/internal/workflow"
)

func main() {
	// Structured logger (zap)
	zl := newZap(getenv("LOG_LEVEL", "info"))
	defer zl.Sync()

	// Metrics server
	nsmetrics.Init()
	go func() {
		addr := nsmetrics.AddrFromEnv()
		_ = nsmetrics.Serve(addr)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Catalog store (MongoDB)
	cat, err := catalog.Connect(ctx, getenv("MONGO_URI", "mongodb://localhost:27017"), getenv("MONGO_DB", "notespot"))
	if err != nil {
		log.Fatal("mongo connect:", err)
	}
	defer cat.Close(context.Background())

	// Object store (S3 / MinIO)
	store, err := storage.NewS3(ctx)
	if err != nil {
		log.Fatal("s3 client:", err)
	}
	bucket := getenv("S3_BUCKET", "note-spot")

	// Staging dir for uploaded files; downloads are served from here
	uploadDir := getenv("UPLOAD_DIR", "data/uploads")
	_ = os.MkdirAll(uploadDir, 0o755)

	// Orphan ledger for compensating deletes that themselves failed
	orphans, err := ledger.Open(getenv("LEDGER_PATH", "data/orphans"))
	if err != nil {
		log.Fatal("orphan ledger:", err)
	}
	defer orphans.Close()

	creator := workflow.NewCreator(store, cat, orphans, bucket, zl)
	deleter := workflow.NewDeleter(store, cat, bucket, zl)
	downloader := workflow.NewDownloader(cat, zl)

	// Session auth for the gated routes
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}
	auth := api.NewAuth(api.NewSessionStore(sessionSecret, cookieSecure()), adminPassword)

	// Initialize Gin
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20 // 8MB in memory; larger parts spill to disk

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.LoadHTMLGlob("templates/*.tmpl")
	r.Static("/public", "./public")
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	handler := api.NewHandler(cat, cat, creator, deleter, downloader, uploadDir, zl)

	r.GET("/", func(c *gin.Context) { c.Redirect(303, "/items") })
	r.GET("/items", handler.ListItems)
	r.GET("/items/new", auth.Require(), handler.NewItem)
	r.POST("/items", handler.CreateItem)
	r.GET("/items/download/:token", handler.DownloadItem)
	r.GET("/items/:id", handler.ShowItem)
	r.DELETE("/items/:id", auth.Require(), handler.DeleteItem)

	r.GET("/login", auth.LoginForm)
	r.POST("/login", auth.Login)
	r.POST("/logout", auth.Logout)

	port := getenv("PORT", "8080")
	zl.Info("server starting",
		zap.String("port", port),
		zap.String("bucket", bucket),
		zap.String("uploadDir", uploadDir),
		zap.String("metrics", nsmetrics.AddrFromEnv()))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server failed:", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func cookieSecure() bool {
	return strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true")
}

func newZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
