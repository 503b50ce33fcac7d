package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig collects the settings the service needs at startup.
type AppConfig struct {
	ListenAddr          string
	Port                string
	DatabasePath        string
	GinMode             string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3UseSSL            bool
	S3PublicBaseURL     string
	ReconcileSchedule   string
	ReconcileGraceHours int
}

// Load reads configuration from the environment, providing safe defaults
// for missing values.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "playware.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	s3Bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if s3Bucket == "" {
		s3Bucket = "playware-gallery"
	}

	reconcileSchedule := strings.TrimSpace(os.Getenv("RECONCILE_SCHEDULE"))
	if reconcileSchedule == "" {
		reconcileSchedule = "@hourly"
	}

	graceHours := 24
	if raw := strings.TrimSpace(os.Getenv("RECONCILE_GRACE_HOURS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			graceHours = parsed
		}
	}

	useSSL := false
	if raw := strings.TrimSpace(os.Getenv("S3_USE_SSL")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			useSSL = parsed
		}
	}

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        databasePath,
		GinMode:             ginMode,
		S3Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3AccessKey:         strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:         strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3Bucket:            s3Bucket,
		S3UseSSL:            useSSL,
		S3PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		ReconcileSchedule:   reconcileSchedule,
		ReconcileGraceHours: graceHours,
	}
}
