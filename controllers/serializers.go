package controllers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/middlewares"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/services"
)

type userResponse struct {
	ID           uint   `json:"id"`
	EmployeeID   string `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	DepartmentID *uint  `json:"department_id"`
	Rank         string `json:"rank"`
	IsActive     bool   `json:"is_active"`
}

type departmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type userDetailResponse struct {
	userResponse
	Department *departmentResponse `json:"department"`
	IsStaff    bool                `json:"is_staff"`
	CreatedAt  time.Time           `json:"created_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		EmployeeID:   u.EmployeeID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Email:        u.Email,
		DepartmentID: u.DepartmentID,
		Rank:         u.Rank,
		IsActive:     u.IsActive,
	}
}

func newUserDetailResponse(u *models.User) userDetailResponse {
	resp := userDetailResponse{
		userResponse: newUserResponse(u),
		IsStaff:      u.IsStaff,
		CreatedAt:    u.CreatedAt,
	}
	if u.Department != nil {
		resp.Department = &departmentResponse{
			ID:   u.Department.ID,
			Name: u.Department.Name,
			Code: u.Department.Code,
		}
	}
	return resp
}

func newUserList(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}

func newUserDetailList(users []models.User) []userDetailResponse {
	out := make([]userDetailResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserDetailResponse(&users[i]))
	}
	return out
}

type paginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func newUserPageResponse(c *gin.Context, page *services.UserPage) paginatedResponse {
	resp := paginatedResponse{
		Count:   page.Count,
		Results: newUserDetailList(page.Users),
	}
	if page.HasNext() {
		next := pageURL(c, page.Page+1)
		resp.Next = &next
	}
	if page.HasPrevious() {
		prev := pageURL(c, page.Page-1)
		resp.Previous = &prev
	}
	return resp
}

// pageURL rebuilds the absolute request URL pointing at another page. The
// first page is addressed without a page parameter.
func pageURL(c *gin.Context, page int) string {
	u := url.URL{
		Scheme: c.GetString(middlewares.ContextScheme),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func newTaskList(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	return tasks
}

func newNotificationList(notifs []models.Notification) []models.Notification {
	if notifs == nil {
		return []models.Notification{}
	}
	return notifs
}
