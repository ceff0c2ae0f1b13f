package logging

import (
	"log/slog"
	"time"

	"github.com/gestorerp/admin-api/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that prunes system_logs older than
// retentionDays. Closing done stops it.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune(db, retentionDays)
			case <-done:
				return
			}
		}
	}()
}

func prune(db *gorm.DB, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
