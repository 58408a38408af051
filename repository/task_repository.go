package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/personnel-api/models"
	"gorm.io/gorm"
)

type GormTaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{DB: db}
}

func (r *GormTaskRepository) Find(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	err := r.DB.WithContext(ctx).
		Scopes(taskFilter(f)).
		Order("due_date ASC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// Aggregate computes every task count in a single statement. A task counts as
// delayed when it is not done and its due date is before today, the same rule
// as models.Task.DelayedAt.
func (r *GormTaskRepository) Aggregate(ctx context.Context, f TaskFilter, today time.Time) (TaskCounts, error) {
	var counts TaskCounts
	err := r.DB.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(taskFilter(f)).
		Select(`COUNT(*) AS total_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress_count,
			COALESCE(SUM(CASE WHEN status <> ? AND due_date < ? THEN 1 ELSE 0 END), 0) AS delayed_count,
			COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS high_count,
			COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS medium_count,
			COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS low_count`,
			models.TaskStatusDone,
			models.TaskStatusInProgress,
			models.TaskStatusDone, models.StartOfDay(today),
			models.TaskPriorityHigh,
			models.TaskPriorityMedium,
			models.TaskPriorityLow,
		).
		Scan(&counts).Error
	if err != nil {
		return TaskCounts{}, fmt.Errorf("aggregate tasks: %w", err)
	}
	return counts, nil
}

func taskFilter(f TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("assignee_id = ?", f.AssigneeID)
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.StartFrom != nil {
			db = db.Where("start_date >= ?", models.StartOfDay(*f.StartFrom))
		}
		if f.DueUntil != nil {
			db = db.Where("due_date <= ?", models.StartOfDay(*f.DueUntil))
		}
		return db
	}
}
