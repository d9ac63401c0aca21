package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bookingcal/models"
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
)

// dateParam parses the ":date" path segment. It writes the 400 itself.
func dateParam(c *gin.Context) (time.Time, bool) {
	date, err := models.ParseDateKey(c.Param("date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func monthParam(c *gin.Context) (time.Time, bool) {
	month, err := models.ParseYearMonth(c.Param("yearMonth"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid month", "month must be YYYY-MM")
		return time.Time{}, false
	}
	return month, true
}

// optionalDateQuery parses a YYYY-MM-DD query value; absent yields the zero time.
func optionalDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	date, err := models.ParseDateKey(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid "+name, name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func optionalIntQuery(c *gin.Context, name string, fallback, min, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		utils.JSONError(c, http.StatusBadRequest, "Invalid "+name,
			name+" must be a number between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		return 0, false
	}
	return n, true
}
