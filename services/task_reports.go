package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
)

// DateRange bounds tasks by start_date (inclusive lower bound) and due_date
// (inclusive upper bound). Either end may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

type TaskStatistics struct {
	TotalTasks      int64                         `json:"total_tasks"`
	CompletedTasks  int64                         `json:"completed_tasks"`
	InProgressTasks int64                         `json:"in_progress_tasks"`
	DelayedTasks    int64                         `json:"delayed_tasks"`
	CompletionRate  float64                       `json:"completion_rate"`
	TasksByPriority map[models.TaskPriority]int64 `json:"tasks_by_priority"`
}

// TaskReports answers per-user task queries. Clock is read once per call so
// every row of a response is judged against the same day.
type TaskReports struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	Clock func() time.Time
}

func NewTaskReports(users repository.UserRepository, tasks repository.TaskRepository) *TaskReports {
	return &TaskReports{users: users, tasks: tasks, Clock: time.Now}
}

func (r *TaskReports) Statistics(ctx context.Context, userID uint, rng DateRange) (*TaskStatistics, error) {
	if err := r.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	counts, err := r.tasks.Aggregate(ctx, repository.TaskFilter{
		AssigneeID: userID,
		StartFrom:  rng.Start,
		DueUntil:   rng.End,
	}, r.Clock())
	if err != nil {
		return nil, err
	}

	return newTaskStatistics(counts), nil
}

func newTaskStatistics(c repository.TaskCounts) *TaskStatistics {
	stats := &TaskStatistics{
		TotalTasks:      c.Total,
		CompletedTasks:  c.Completed,
		InProgressTasks: c.InProgress,
		DelayedTasks:    c.Delayed,
		TasksByPriority: make(map[models.TaskPriority]int64, len(models.TaskPriorities)),
	}
	for _, p := range models.TaskPriorities {
		stats.TasksByPriority[p] = c.ByPriority(p)
	}
	if c.Total > 0 {
		stats.CompletionRate = float64(c.Completed) / float64(c.Total) * 100
	}
	return stats
}

// Current lists the user's tasks that are in progress.
func (r *TaskReports) Current(ctx context.Context, userID uint) ([]models.Task, error) {
	return r.find(ctx, repository.TaskFilter{
		AssigneeID: userID,
		Status:     models.TaskStatusInProgress,
	})
}

// History lists the user's tasks, optionally narrowed by exact status and date range.
func (r *TaskReports) History(ctx context.Context, userID uint, status models.TaskStatus, rng DateRange) ([]models.Task, error) {
	return r.find(ctx, repository.TaskFilter{
		AssigneeID: userID,
		Status:     status,
		StartFrom:  rng.Start,
		DueUntil:   rng.End,
	})
}

func (r *TaskReports) find(ctx context.Context, f repository.TaskFilter) ([]models.Task, error) {
	if err := r.requireUser(ctx, f.AssigneeID); err != nil {
		return nil, err
	}

	tasks, err := r.tasks.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	now := r.Clock()
	for i := range tasks {
		tasks[i].IsDelayed = tasks[i].DelayedAt(now)
	}
	return tasks, nil
}

func (r *TaskReports) requireUser(ctx context.Context, userID uint) error {
	_, err := r.users.FindActiveByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return err
}
