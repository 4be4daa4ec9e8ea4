package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/polito-log/backend/internal/models"
	"gorm.io/gorm"
)

// PurgeSystemLogs deletes system_logs recorded before cutoff.
func PurgeSystemLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge system logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
