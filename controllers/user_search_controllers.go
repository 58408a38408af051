package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/services"
)

type UserSearchController struct {
	Directory *services.UserDirectory
}

func NewUserSearchController(directory *services.UserDirectory) *UserSearchController {
	return &UserSearchController{Directory: directory}
}

// SearchByExperience -> GET /users/search/search_by_experience?task_keyword=
func (sc *UserSearchController) SearchByExperience(c *gin.Context) {
	users, err := sc.Directory.SearchByExperience(c.Request.Context(), strings.TrimSpace(c.Query("task_keyword")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(users))
}

// SearchByDepartment -> GET /users/search/search_by_department?department_id=
func (sc *UserSearchController) SearchByDepartment(c *gin.Context) {
	departmentID, err := queryUint(c, "department_id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	users, err := sc.Directory.SearchByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(users))
}

// SearchByRank -> GET /users/search/search_by_rank?rank=
func (sc *UserSearchController) SearchByRank(c *gin.Context) {
	users, err := sc.Directory.SearchByRank(c.Request.Context(), strings.TrimSpace(c.Query("rank")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserList(users))
}
