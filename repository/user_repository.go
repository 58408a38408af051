package repository

import (
	"context"
	"fmt"

	"github.com/yeremiapane/personnel-api/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{DB: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Department").First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindActiveByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Scopes(activeUsers).
		Preload("Department").
		First(&user, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) ExistsByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR employee_id = ?", email, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) DepartmentExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Department{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) CountActive(ctx context.Context, f UserFilter) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Scopes(activeUsers, userFilter(f)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *GormUserRepository) ListActive(ctx context.Context, f UserFilter, page Page) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).
		Scopes(activeUsers, userFilter(f)).
		Preload("Department").
		Order("first_name ASC").
		Order("id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListByTaskKeyword returns each user at most once, however many of their
// tasks match.
func (r *GormUserRepository) ListByTaskKeyword(ctx context.Context, keyword string) ([]models.User, error) {
	db := r.DB.WithContext(ctx)
	assignees := db.Model(&models.Task{}).
		Select("assignee_id").
		Where(lowerContains("title"), containsPattern(keyword))

	var users []models.User
	if err := db.Where("id IN (?)", assignees).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users by task keyword: %w", err)
	}
	return users, nil
}

func (r *GormUserRepository) ListByDepartment(ctx context.Context, departmentID uint) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Where("department_id = ?", departmentID).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("search users by department: %w", err)
	}
	return users, nil
}

func (r *GormUserRepository) ListByRank(ctx context.Context, rank string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Where("`rank` = ?", rank).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users by rank: %w", err)
	}
	return users, nil
}

// Update writes the given columns of one user. MySQL reports unchanged rows
// as unaffected, so a missing user is not detected here.
func (r *GormUserRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes).Error
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

// Delete removes a user together with the tasks assigned to them and the
// notifications they received.
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipient_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("delete notifications of user %d: %w", id, err)
		}
		if err := tx.Where("assignee_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks of user %d: %w", id, err)
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func activeUsers(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func userFilter(f UserFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			p := containsPattern(f.Search)
			db = db.Where(
				"("+lowerContains("first_name")+" OR "+lowerContains("last_name")+
					" OR "+lowerContains("employee_id")+" OR "+lowerContains("email")+")",
				p, p, p, p,
			)
		}
		if f.DepartmentID != nil {
			db = db.Where("department_id = ?", *f.DepartmentID)
		}
		if f.Rank != "" {
			db = db.Where("`rank` = ?", f.Rank)
		}
		return db
	}
}
