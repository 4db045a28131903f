package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/model"
)

// ThrottleRepository persists per-day request counters.
type ThrottleRepository struct {
	db *gorm.DB
}

func NewThrottleRepository(db *gorm.DB) *ThrottleRepository {
	return &ThrottleRepository{db: db}
}

// Hit increments the counter for (scope, subject, day) and returns the new count.
func (r *ThrottleRepository) Hit(ctx context.Context, scope, subject string, day model.Date) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := model.ThrottleCounter{Scope: scope, Subject: subject, Day: day, Count: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}, {Name: "subject"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count": gorm.Expr("throttle_counters.count + 1"),
			}),
		}).Create(&counter).Error
		if err != nil {
			return fmt.Errorf("increment throttle counter: %w", err)
		}

		var stored model.ThrottleCounter
		if err := tx.Where("scope = ? AND subject = ? AND day = ?", scope, subject, day).
			First(&stored).Error; err != nil {
			return fmt.Errorf("read throttle counter: %w", err)
		}
		count = stored.Count
		return nil
	})
	return count, err
}

// PurgeBefore drops counters of days strictly before day.
func (r *ThrottleRepository) PurgeBefore(ctx context.Context, day model.Date) (int64, error) {
	res := r.db.WithContext(ctx).Where("day < ?", day).Delete(&model.ThrottleCounter{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge throttle counters: %w", res.Error)
	}
	return res.RowsAffected, nil
}
