package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playware/internal/config"
	"github.com/playware/internal/db"
	"github.com/playware/internal/handler"
	"github.com/playware/internal/media"
	"github.com/playware/internal/router"
	"github.com/playware/internal/scheduler"
	"github.com/playware/internal/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	store, err := storage.NewMinioStore(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicBaseURL, cfg.S3UseSSL)
	if err != nil {
		log.Fatalf("failed to initialize object store: %v", err)
	}

	api := handler.NewAPI(db.DB, store, media.NewProcessor(),
		time.Duration(cfg.ReconcileGraceHours)*time.Hour)

	jobs := scheduler.NewCronScheduler()
	if err := jobs.AddJob(cfg.ReconcileSchedule, api.Reconciler()); err != nil {
		log.Fatalf("failed to schedule reconciliation: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
