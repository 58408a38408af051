package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskDelayedAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		status TaskStatus
		due    time.Time
		want   bool
	}{
		{"due yesterday and open", TaskStatusInProgress, day(9), true},
		{"due today", TaskStatusTodo, day(10), false},
		{"due tomorrow", TaskStatusTodo, day(11), false},
		{"overdue but done", TaskStatusDone, day(1), false},
		{"overdue and on hold", TaskStatusHold, day(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Status: tt.status, DueDate: tt.due}
			assert.Equal(t, tt.want, task.DelayedAt(now))
		})
	}
}

func TestStartOfDayUsesUTC(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 02:00 on March 11 in Seoul is still March 10 in UTC.
	got := StartOfDay(time.Date(2026, 3, 11, 2, 0, 0, 0, seoul))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestTaskStatusValid(t *testing.T) {
	assert.True(t, TaskStatusDone.Valid())
	assert.True(t, TaskStatusReview.Valid())
	assert.False(t, TaskStatus("done").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Jiwoo", LastName: "Kim"}
	assert.Equal(t, "Jiwoo Kim", u.FullName())

	u.LastName = ""
	assert.Equal(t, "Jiwoo", u.FullName())
}
