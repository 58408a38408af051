package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Register creates an active, non-staff user.
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		EmployeeID   string `json:"employee_id" binding:"required,max=20"`
		FirstName    string `json:"first_name" binding:"required,max=150"`
		LastName     string `json:"last_name" binding:"required,max=150"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8,max=72"`
		DepartmentID *uint  `json:"department_id"`
		Rank         string `json:"rank" binding:"max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := ac.Auth.Register(c.Request.Context(), services.RegisterInput{
		EmployeeID:   req.EmployeeID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
		Rank:         req.Rank,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User registered", newUserDetailResponse(user))
}

// Login exchanges credentials for a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, user, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}
