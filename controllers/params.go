package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/middlewares"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

const dateLayout = "2006-01-02"

// pathID parses a positive integer path parameter. Anything else is a 404,
// the same as an id that matches no record.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("%s %q: %w", name, c.Param(name), services.ErrNotFound))
		return 0, false
	}
	return uint(id), true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date formatted YYYY-MM-DD: %w", name, services.ErrInvalidInput)
	}
	return &t, nil
}

func queryDateRange(c *gin.Context) (services.DateRange, error) {
	start, err := queryDate(c, "start_date")
	if err != nil {
		return services.DateRange{}, err
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return services.DateRange{}, err
	}
	return services.DateRange{Start: start, End: end}, nil
}

// queryUint parses an optional unsigned integer query parameter.
func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", name, services.ErrInvalidInput)
	}
	id := uint(v)
	return &id, nil
}

// queryBool parses an optional boolean query parameter ("true"/"false", "1"/"0").
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false: %w", name, services.ErrInvalidInput)
	}
	return &v, nil
}

// queryInt returns the integer value of name, or fallback when it is missing
// or not a number.
func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return fallback
	}
	return v
}

// queryPage returns the requested page number, 1 when absent. A value that is
// not a number is reported as ErrInvalidPage.
func queryPage(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ErrInvalidPage
	}
	return page, nil
}

func callerID(c *gin.Context) (uint, bool) {
	id, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errUnauthenticated)
	}
	return id, ok
}
