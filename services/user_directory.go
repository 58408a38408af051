package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// UserPage is one page of the directory listing.
type UserPage struct {
	Count    int64
	Page     int
	PageSize int
	Users    []models.User
}

func (p *UserPage) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Count
}

func (p *UserPage) HasPrevious() bool {
	return p.Page > 1
}

// NormalizePageSize maps a requested page size onto the allowed range.
// Non-positive sizes fall back to the default and large ones are clamped.
func NormalizePageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	}
	return size
}

type UserDirectory struct {
	users repository.UserRepository
}

func NewUserDirectory(users repository.UserRepository) *UserDirectory {
	return &UserDirectory{users: users}
}

// List returns one page of active users ordered by first name. Page numbers
// start at 1; a page past the last one is ErrInvalidPage, except page 1 which
// is always valid.
func (d *UserDirectory) List(ctx context.Context, f repository.UserFilter, page, pageSize int) (*UserPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	pageSize = NormalizePageSize(pageSize)

	count, err := d.users.CountActive(ctx, f)
	if err != nil {
		return nil, err
	}

	lastPage := int((count + int64(pageSize) - 1) / int64(pageSize))
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		return nil, ErrInvalidPage
	}

	users, err := d.users.ListActive(ctx, f, repository.Page{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &UserPage{Count: count, Page: page, PageSize: pageSize, Users: users}, nil
}

// Get returns an active user.
func (d *UserDirectory) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := d.users.FindActiveByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, err
}

// Me returns the caller's own record, active or not.
func (d *UserDirectory) Me(ctx context.Context, callerID uint) (*models.User, error) {
	user, err := d.users.FindByID(ctx, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("user %d: %w", callerID, ErrNotFound)
	}
	return user, err
}

// SearchByExperience finds users who were assigned at least one task whose
// title contains keyword, ignoring case.
func (d *UserDirectory) SearchByExperience(ctx context.Context, keyword string) ([]models.User, error) {
	return d.users.ListByTaskKeyword(ctx, keyword)
}

// SearchByDepartment returns no users when departmentID is nil.
func (d *UserDirectory) SearchByDepartment(ctx context.Context, departmentID *uint) ([]models.User, error) {
	if departmentID == nil {
		return []models.User{}, nil
	}
	return d.users.ListByDepartment(ctx, *departmentID)
}

func (d *UserDirectory) SearchByRank(ctx context.Context, rank string) ([]models.User, error) {
	if rank == "" {
		return []models.User{}, nil
	}
	return d.users.ListByRank(ctx, rank)
}

// UpdateUserInput carries the fields to change; nil leaves a field as is.
// Users may rename themselves. Rank, department and the active flag are
// staff-only, as is editing anyone else.
type UpdateUserInput struct {
	FirstName    *string
	LastName     *string
	Rank         *string
	DepartmentID *uint
	IsActive     *bool
}

func (in UpdateUserInput) touchesStaffFields() bool {
	return in.Rank != nil || in.DepartmentID != nil || in.IsActive != nil
}

func (d *UserDirectory) Update(ctx context.Context, callerID, id uint, in UpdateUserInput) (*models.User, error) {
	caller, err := d.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && (callerID != id || in.touchesStaffFields()) {
		return nil, ErrForbidden
	}

	if _, err := d.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	changes, err := d.userChanges(ctx, callerID, id, in)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		if err := d.users.Update(ctx, id, changes); err != nil {
			return nil, err
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"user_id":   id,
			"editor_id": callerID,
		}).Info("user updated")
	}

	return d.users.FindByID(ctx, id)
}

func (d *UserDirectory) userChanges(ctx context.Context, callerID, id uint, in UpdateUserInput) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, fmt.Errorf("first_name may not be blank: %w", ErrInvalidInput)
		}
		changes["first_name"] = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, fmt.Errorf("last_name may not be blank: %w", ErrInvalidInput)
		}
		changes["last_name"] = name
	}
	if in.Rank != nil {
		changes["rank"] = strings.TrimSpace(*in.Rank)
	}
	if in.DepartmentID != nil {
		ok, err := d.users.DepartmentExists(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("department %d does not exist: %w", *in.DepartmentID, ErrInvalidInput)
		}
		changes["department_id"] = *in.DepartmentID
	}
	if in.IsActive != nil {
		if !*in.IsActive && id == callerID {
			return nil, fmt.Errorf("you cannot deactivate your own account: %w", ErrInvalidInput)
		}
		changes["is_active"] = *in.IsActive
	}
	return changes, nil
}

// Delete is staff-only and removes the user with their tasks and
// notifications. Staff cannot delete themselves.
func (d *UserDirectory) Delete(ctx context.Context, callerID, id uint) error {
	caller, err := d.caller(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsStaff {
		return ErrForbidden
	}
	if callerID == id {
		return fmt.Errorf("you cannot delete your own account: %w", ErrInvalidInput)
	}

	if err := d.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id":   id,
		"editor_id": callerID,
	}).Info("user deleted")
	return nil
}

func (d *UserDirectory) caller(ctx context.Context, callerID uint) (*models.User, error) {
	caller, err := d.users.FindActiveByID(ctx, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrForbidden
	}
	return caller, err
}
