package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	cases := map[string]struct {
		want string
		ok   bool
	}{
		"2025-03-10":                {"2025-03-10", true},
		" 2025-03-12 ":              {"2025-03-12", true},
		"2025-03-10T23:30:00-05:00": {"2025-03-10", true},
		"2025-03-10T01:00:00+09:00": {"2025-03-10", true},
		"10/03/2025":                {"", false},
		"":                          {"", false},
	}
	for in, tc := range cases {
		got, ok := DateKey(in)
		assert.Equal(t, tc.ok, ok, in)
		assert.Equal(t, tc.want, got, in)
	}
}

func TestTodayKeyUsesViewerZone(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	tokyo, err := LoadViewerLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", TodayKey(now, tokyo))

	utc, err := LoadViewerLocation("")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", TodayKey(now, utc))

	_, err = LoadViewerLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestNewIDShape(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	id := NewIDAt("post", now)
	assert.Regexp(t, `^post-1735689600000-[0-9a-f]{9}$`, id)
	assert.NotEqual(t, id, NewIDAt("post", now))
}

func TestParseLimitParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]int{
		"/x":           10,
		"/x?limit=3":   3,
		"/x?limit=0":   10,
		"/x?limit=abc": 10,
		"/x?limit=500": MaxListLimit,
	}
	for url, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", url, nil)
		assert.Equal(t, want, ParseLimitParam(c, 10), url)
	}
}

func TestCategoryFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/posts?category=all", nil)
	assert.Equal(t, "", CategoryFilter(c))

	c.Request = httptest.NewRequest("GET", "/posts?category=food", nil)
	assert.Equal(t, "food", CategoryFilter(c))
}
