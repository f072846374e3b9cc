package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxListLimit caps every ?limit= query parameter
const MaxListLimit = 100

// ParseLimitParam reads ?limit=, falling back to def when absent or invalid
func ParseLimitParam(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// CategoryFilter returns the ?category= value; "all" and empty mean no filter
func CategoryFilter(c *gin.Context) string {
	category := c.Query("category")
	if category == "all" {
		return ""
	}
	return category
}
