package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	EmployeeID   string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"employee_id"`
	FirstName    string      `gorm:"type:varchar(150);not null;index" json:"first_name"`
	LastName     string      `gorm:"type:varchar(150);not null" json:"last_name"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	DepartmentID *uint       `gorm:"index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"department,omitempty"`
	Rank         string      `gorm:"type:varchar(50);index" json:"rank"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool        `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// FullName joins first and last name the way the directory displays them.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
