package app

import (
	"fmt"
	"time"

	"stepik-analytics/internal/clients/stepik"
	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/utils"
)

type Config struct {
	APIToken     string
	BackfillDays int
	TimeZoneID   string
	Location     *time.Location

	DatabasePath string
	HTTPAddr     string
	ExportDir    string

	AutoSyncEnabled bool
	SyncInterval    time.Duration

	Endpoints stepik.Endpoints
}

func LoadConfig(log *logger.Logger) (Config, error) {
	tzID := utils.GetEnv("TIMEZONE_ID", "Europe/Riga", log)
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", tzID, err)
	}

	syncIntervalHours := utils.GetEnvAsInt("SYNC_INTERVAL_HOURS", 24, log)

	return Config{
		APIToken:        utils.GetEnv("API_TOKEN", "", log),
		BackfillDays:    utils.GetEnvAsInt("BACKFILL_DAYS", 365, log),
		TimeZoneID:      tzID,
		Location:        loc,
		DatabasePath:    utils.GetEnv("DATABASE_PATH", "stepik-analytics.db", log),
		HTTPAddr:        utils.GetEnv("HTTP_ADDR", ":8080", log),
		ExportDir:       utils.GetEnv("EXPORT_DIR", "exports", log),
		AutoSyncEnabled: utils.GetEnvAsBool("AUTO_SYNC_ENABLED", true, log),
		SyncInterval:    time.Duration(syncIntervalHours) * time.Hour,
		Endpoints: stepik.Endpoints{
			Attempts:     utils.GetEnv("STEPIK_ATTEMPTS_ENDPOINT", "", log),
			Enrollments:  utils.GetEnv("STEPIK_ENROLLMENTS_ENDPOINT", "", log),
			Certificates: utils.GetEnv("STEPIK_CERTIFICATES_ENDPOINT", "", log),
			Reviews:      utils.GetEnv("STEPIK_REVIEWS_ENDPOINT", "", log),
			Ratings:      utils.GetEnv("STEPIK_RATINGS_ENDPOINT", "", log),
		},
	}, nil
}
