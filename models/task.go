package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusHold       TaskStatus = "HOLD"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusHold:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityLow    TaskPriority = "LOW"
)

// TaskPriorities lists the priorities broken out by task statistics.
var TaskPriorities = []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}

type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	AssigneeID  uint         `gorm:"not null;index" json:"assignee_id"`
	Assignee    User         `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	StartDate   time.Time    `gorm:"type:date;not null" json:"start_date"`
	DueDate     time.Time    `gorm:"type:date;not null" json:"due_date"`
	IsDelayed   bool         `gorm:"-" json:"is_delayed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DelayedAt reports whether the task is overdue on the calendar day of now:
// it is not done and its due date lies strictly before that day.
func (t *Task) DelayedAt(now time.Time) bool {
	if t.Status == TaskStatusDone {
		return false
	}
	return t.DueDate.Before(StartOfDay(now))
}

// StartOfDay truncates t to midnight UTC. Task dates are stored this way.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
