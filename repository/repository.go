// Package repository holds the gorm-backed data access layer. Query options
// arrive as typed filter structs and are turned into gorm scopes here, so
// callers never compose raw predicates themselves.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yeremiapane/personnel-api/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// UserFilter narrows the active user directory. Zero values mean "no filter".
type UserFilter struct {
	Search       string
	DepartmentID *uint
	Rank         string
}

// TaskFilter narrows the tasks of one assignee.
type TaskFilter struct {
	AssigneeID uint
	Status     models.TaskStatus
	StartFrom  *time.Time // start_date >= StartFrom
	DueUntil   *time.Time // due_date <= DueUntil
}

type Page struct {
	Offset int
	Limit  int
}

// TaskCounts is the raw output of the task aggregate query.
type TaskCounts struct {
	Total      int64 `gorm:"column:total_count"`
	Completed  int64 `gorm:"column:completed_count"`
	InProgress int64 `gorm:"column:in_progress_count"`
	Delayed    int64 `gorm:"column:delayed_count"`
	High       int64 `gorm:"column:high_count"`
	Medium     int64 `gorm:"column:medium_count"`
	Low        int64 `gorm:"column:low_count"`
}

// ByPriority returns the count for one of the known priorities, 0 otherwise.
func (c TaskCounts) ByPriority(p models.TaskPriority) int64 {
	switch p {
	case models.TaskPriorityHigh:
		return c.High
	case models.TaskPriorityMedium:
		return c.Medium
	case models.TaskPriorityLow:
		return c.Low
	}
	return 0
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindActiveByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (bool, error)
	DepartmentExists(ctx context.Context, id uint) (bool, error)
	CountActive(ctx context.Context, f UserFilter) (int64, error)
	ListActive(ctx context.Context, f UserFilter, page Page) ([]models.User, error)
	ListByTaskKeyword(ctx context.Context, keyword string) ([]models.User, error)
	ListByDepartment(ctx context.Context, departmentID uint) ([]models.User, error)
	ListByRank(ctx context.Context, rank string) ([]models.User, error)
	Update(ctx context.Context, id uint, changes map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type TaskRepository interface {
	Find(ctx context.Context, f TaskFilter) ([]models.Task, error)
	Aggregate(ctx context.Context, f TaskFilter, today time.Time) (TaskCounts, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID uint, isRead *bool) ([]models.Notification, error)
	FindForRecipient(ctx context.Context, recipientID, id uint) (*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uint, at time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uint, at time.Time) (int64, error)
	MarkUnread(ctx context.Context, recipientID, id uint) (*models.Notification, error)
	Delete(ctx context.Context, recipientID, id uint) error
}

// likeEscape is the escape character paired with containsPattern. It is not a
// LIKE wildcard in either MySQL or SQLite.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// containsPattern builds a LIKE pattern matching s as a literal substring.
// Case is left alone: callers fold both sides with SQL LOWER so that a single
// engine decides what lower case means.
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}

// lowerContains is the predicate paired with containsPattern.
func lowerContains(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
