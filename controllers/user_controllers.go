package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

type UserController struct {
	Directory *services.UserDirectory
	Reports   *services.TaskReports
}

func NewUserController(directory *services.UserDirectory, reports *services.TaskReports) *UserController {
	return &UserController{Directory: directory, Reports: reports}
}

// GetAllUsers -> GET /users?search=&department=&rank=&page=&page_size=
func (uc *UserController) GetAllUsers(c *gin.Context) {
	departmentID, err := queryUint(c, "department")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filter := repository.UserFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		DepartmentID: departmentID,
		Rank:         strings.TrimSpace(c.Query("rank")),
	}

	pageNumber, err := queryPage(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	page, err := uc.Directory.List(c.Request.Context(), filter, pageNumber,
		queryInt(c, "page_size", services.DefaultPageSize))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPageResponse(c, page))
}

func (uc *UserController) GetProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	user, err := uc.Directory.Me(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserDetailResponse(user))
}

func (uc *UserController) GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := uc.Directory.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserDetailResponse(user))
}

// UpdateUser -> PATCH /users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		FirstName    *string `json:"first_name" binding:"omitempty,max=150"`
		LastName     *string `json:"last_name" binding:"omitempty,max=150"`
		Rank         *string `json:"rank" binding:"omitempty,max=50"`
		DepartmentID *uint   `json:"department_id"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Directory.Update(c.Request.Context(), caller, id, services.UpdateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Rank:         req.Rank,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserDetailResponse(user))
}

// DeleteUser -> DELETE /users/:id (staff only)
func (uc *UserController) DeleteUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := uc.Directory.Delete(c.Request.Context(), caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TasksCurrent -> GET /users/:id/tasks_current
func (uc *UserController) TasksCurrent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tasks, err := uc.Reports.Current(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskList(tasks))
}

// TasksHistory -> GET /users/:id/tasks_history?status=&start_date=&end_date=
func (uc *UserController) TasksHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rng, err := queryDateRange(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := models.TaskStatus(strings.TrimSpace(c.Query("status")))

	tasks, err := uc.Reports.History(c.Request.Context(), id, status, rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskList(tasks))
}

// TasksStatistics -> GET /users/:id/tasks_statistics?start_date=&end_date=
func (uc *UserController) TasksStatistics(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rng, err := queryDateRange(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats, err := uc.Reports.Statistics(c.Request.Context(), id, rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
