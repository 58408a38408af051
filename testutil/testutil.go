// Package testutil provides in-memory databases and fixtures shared by the
// package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/personnel-api/config"
	"github.com/yeremiapane/personnel-api/database"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultPassword = "password123"

var seq atomic.Int64

// NewDB opens a private, migrated SQLite database living in memory for the
// duration of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	utils.SilenceLoggers()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Config returns settings suitable for routers under test: no global rate
// limit and a login limit high enough to never trigger.
func Config() *config.Config {
	return &config.Config{
		Port:            "0",
		GinMode:         "test",
		DBDriver:        "sqlite",
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		LogLevel:        "error",
		CORSOrigin:      "*",
		LoginRatePerMin: 10000,
		ShutdownTimeout: time.Second,
	}
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func CreateDepartment(t testing.TB, db *gorm.DB, name, code string) models.Department {
	t.Helper()
	dept := models.Department{Name: name, Code: code}
	require.NoError(t, db.Create(&dept).Error)
	return dept
}

// CreateUser fills in unique identity fields and a DefaultPassword hash when
// they are empty. The user is always created active; see Deactivate.
func CreateUser(t testing.TB, db *gorm.DB, u models.User) models.User {
	t.Helper()
	n := seq.Add(1)
	if u.EmployeeID == "" {
		u.EmployeeID = fmt.Sprintf("EMP%04d", n)
	}
	if u.Email == "" {
		u.Email = fmt.Sprintf("user%d@example.com", n)
	}
	if u.FirstName == "" {
		u.FirstName = fmt.Sprintf("First%d", n)
	}
	if u.LastName == "" {
		u.LastName = "Tester"
	}
	if u.Password == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		require.NoError(t, err)
		u.Password = string(hashed)
	}
	u.IsActive = true

	require.NoError(t, db.Create(&u).Error)
	return u
}

func Deactivate(t testing.TB, db *gorm.DB, userID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error)
}

// CreateTask defaults to a MEDIUM priority TODO task spanning today.
func CreateTask(t testing.TB, db *gorm.DB, task models.Task) models.Task {
	t.Helper()
	if task.Title == "" {
		task.Title = fmt.Sprintf("Task %d", seq.Add(1))
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	today := models.StartOfDay(time.Now())
	if task.StartDate.IsZero() {
		task.StartDate = today
	}
	if task.DueDate.IsZero() {
		task.DueDate = today
	}

	require.NoError(t, db.Create(&task).Error)
	return task
}

func CreateNotification(t testing.TB, db *gorm.DB, recipientID uint, isRead bool) models.Notification {
	t.Helper()
	n := models.Notification{
		RecipientID: recipientID,
		Type:        models.NotificationTypeGeneral,
		Title:       fmt.Sprintf("Notice %d", seq.Add(1)),
		Message:     "Please review the updated task board.",
		IsRead:      isRead,
	}
	require.NoError(t, db.Create(&n).Error)
	return n
}
