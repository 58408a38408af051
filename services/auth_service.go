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
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	EmployeeID   string
	FirstName    string
	LastName     string
	Email        string
	Password     string
	DepartmentID *uint
	Rank         string
}

type AuthService struct {
	users  repository.UserRepository
	tokens *utils.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)

	exists, err := s.users.ExistsByEmailOrEmployeeID(ctx, in.Email, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user with this email or employee id: %w", ErrConflict)
	}

	if in.DepartmentID != nil {
		ok, err := s.users.DepartmentExists(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("department %d does not exist: %w", *in.DepartmentID, ErrInvalidInput)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		EmployeeID:   in.EmployeeID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Password:     string(hashed),
		DepartmentID: in.DepartmentID,
		Rank:         in.Rank,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"employee_id": user.EmployeeID,
	}).Info("user registered")

	return s.users.FindByID(ctx, user.ID)
}

// Login verifies the credentials of an active user and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.IsStaff)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}
