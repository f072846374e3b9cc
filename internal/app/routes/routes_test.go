package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/controllers"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	pkgauth "github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/filestorage"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	memberCode = "DONOSTI2025"
	adminCode  = "CASAPINA2025"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, limiter *middleware.IPRateLimiter) *gin.Engine {
	t.Helper()
	require.NoError(t, middleware.RegisterValidators())

	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repos := repositories.NewRepositories(store)
	_, err := repos.SettingsRepository.EnsureVerificationCodes(ctx, []string{memberCode})
	require.NoError(t, err)
	_, err = repos.AnalyticsRepository.EnsureExists(ctx)
	require.NoError(t, err)

	log := zerolog.Nop()
	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	provider := identity.NewLocalProvider(store, jwt, bcrypt.MinCost)
	photos, err := filestorage.NewLocalStorage(t.TempDir(), "http://photos.test/uploads")
	require.NoError(t, err)
	authz := auth.NewAuthorizationService(log)

	posts := services.NewPostService(repos, authz, photos, nil, log)
	forum := services.NewForumService(repos, authz, nil, log)
	ledger := services.NewLedgerService(repos, authz, log)
	calendar := services.NewCalendarService(repos, authz, nil, log)
	accounts := services.NewAccountService(repos, provider, services.AccountPolicy{AdminCode: adminCode}, nil, log)
	admin := services.NewAdminService(repos, provider, authz, photos, nil, log)
	analytics := services.NewAnalyticsService(repos, log)
	leaderboard := services.NewLeaderboardService(repos, services.DefaultScoreWeights, 10)

	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(1000, 1000)
	}

	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:      controllers.NewAuthController(accounts, log),
		Post:      controllers.NewPostController(posts, log),
		Forum:     controllers.NewForumController(forum),
		Ledger:    controllers.NewLedgerController(ledger),
		Calendar:  controllers.NewCalendarController(calendar),
		Admin:     controllers.NewAdminController(admin),
		Analytics: controllers.NewAnalyticsController(analytics, leaderboard, log),
	}, middleware.NewAuthMiddleware(provider, repos.ProfileRepository), limiter)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signupAndLogin creates an account and returns its access token and id
func signupAndLogin(t *testing.T, router *gin.Engine, email, code string) (string, string) {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/signup", "", gin.H{
		"email": email, "password": "secret123", "name": "Name " + email, "verificationCode": code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return body["accessToken"].(string), user["id"].(string)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)
	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestAccountRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodPost, "/signup", "", gin.H{"email": "not-an-email", "password": "secret123", "name": "Ane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token, id := signupAndLogin(t, router, "ane@example.com", memberCode)

	w = doRequest(t, router, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, id, user["id"])
	assert.Equal(t, true, user["verified"])
	assert.Equal(t, false, user["admin"])

	w = doRequest(t, router, http.MethodGet, "/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodGet, "/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/signup", "", gin.H{"email": "ane@example.com", "password": "secret123", "name": "Ane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{"email": "ane@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyCodeRoute(t *testing.T) {
	router := newTestRouter(t, nil)
	token, _ := signupAndLogin(t, router, "mikel@example.com", "")

	w := doRequest(t, router, http.MethodPost, "/verify-code", token, gin.H{"code": "WRONG"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/verify-code", token, gin.H{"code": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No code provided", decodeBody(t, w)["error"])

	w = doRequest(t, router, http.MethodPost, "/verify-code", token, gin.H{"code": memberCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, true, user["verified"])
}

func TestPostRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	owner, _ := signupAndLogin(t, router, "owner@example.com", memberCode)
	other, _ := signupAndLogin(t, router, "other@example.com", "")

	newPost := gin.H{"title": "Bar Nestor", "category": "food", "content": "Tortilla at 13:00", "restaurantName": "Nestor"}

	w := doRequest(t, router, http.MethodPost, "/posts", "", newPost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/posts", owner, gin.H{"title": "x", "category": "nightlife"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/posts", owner, newPost)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decodeBody(t, w)["post"].(map[string]interface{})
	postID := post["id"].(string)
	assert.Equal(t, "Nestor", post["restaurantName"])
	assert.Equal(t, true, post["verified"])

	w = doRequest(t, router, http.MethodGet, "/posts?category=food", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"], 1)

	w = doRequest(t, router, http.MethodGet, "/posts?category=trips", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"], 0)

	// upvote toggling and status
	w = doRequest(t, router, http.MethodPost, "/posts/"+postID+"/upvote", other, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	vote := decodeBody(t, w)
	assert.Equal(t, float64(1), vote["upvotes"])
	assert.Equal(t, true, vote["hasUpvoted"])

	w = doRequest(t, router, http.MethodGet, "/posts/"+postID+"/upvote-status", other, nil)
	assert.Equal(t, true, decodeBody(t, w)["hasUpvoted"])
	w = doRequest(t, router, http.MethodGet, "/posts/"+postID+"/upvote-status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["hasUpvoted"])

	// reports are once per user
	w = doRequest(t, router, http.MethodPost, "/posts/"+postID+"/report", other, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodPost, "/posts/"+postID+"/report", other, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RES_004", decodeBody(t, w)["code"])

	// comments
	w = doRequest(t, router, http.MethodPost, "/posts/"+postID+"/comments", other, gin.H{"content": "Agreed!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := decodeBody(t, w)["comment"].(map[string]interface{})["id"].(string)

	w = doRequest(t, router, http.MethodGet, "/posts/"+postID+"/comment-count", "", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = doRequest(t, router, http.MethodGet, "/posts/"+postID+"/comments", "", nil)
	assert.Len(t, decodeBody(t, w)["comments"], 1)

	w = doRequest(t, router, http.MethodDelete, "/posts/"+postID+"/comments/"+commentID, owner, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// delete permissions
	w = doRequest(t, router, http.MethodDelete, "/posts/"+postID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, router, http.MethodDelete, "/posts/"+postID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(t, router, http.MethodPost, "/posts/"+postID+"/upvote", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostRoutes_PhotoObjectStaysServerSide(t *testing.T) {
	router := newTestRouter(t, nil)
	owner, _ := signupAndLogin(t, router, "photos@example.com", memberCode)

	w := doRequest(t, router, http.MethodPost, "/posts", owner, gin.H{
		"title":     "Playa de la Concha",
		"category":  "activities",
		"photoData": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decodeBody(t, w)["post"].(map[string]interface{})
	postID := post["id"].(string)
	assert.Contains(t, post["photoUrl"], "http://photos.test/uploads/")
	assert.NotContains(t, post, "photoObject")

	w = doRequest(t, router, http.MethodGet, "/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w)["post"], "photoObject")

	w = doRequest(t, router, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.NotContains(t, posts[0], "photoObject")
}

func TestForumRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	asker, _ := signupAndLogin(t, router, "asker@example.com", "")
	helper, _ := signupAndLogin(t, router, "helper@example.com", memberCode)

	w := doRequest(t, router, http.MethodPost, "/forum/threads", asker, gin.H{"title": "Room?", "category": "housing", "content": "Near Gros"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	threadID := decodeBody(t, w)["thread"].(map[string]interface{})["id"].(string)

	w = doRequest(t, router, http.MethodPost, "/forum/threads", asker, gin.H{"title": "Room?", "category": "food", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/forum/threads/"+threadID+"/replies", helper, gin.H{"content": "Try the housing board"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	replyID := decodeBody(t, w)["reply"].(map[string]interface{})["id"].(string)

	w = doRequest(t, router, http.MethodPost, "/forum/replies/"+replyID+"/helpful", helper, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodPost, "/forum/replies/"+replyID+"/helpful", asker, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decodeBody(t, w)["helpful"])

	w = doRequest(t, router, http.MethodGet, "/forum/threads/"+threadID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	thread := decodeBody(t, w)["thread"].(map[string]interface{})
	assert.Equal(t, true, thread["solved"])
	assert.Equal(t, float64(1), thread["replyCount"])

	w = doRequest(t, router, http.MethodPost, "/forum/replies/"+replyID+"/upvote", asker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/forum/replies/"+replyID+"/upvote-status", asker, nil)
	assert.Equal(t, true, decodeBody(t, w)["hasUpvoted"])

	w = doRequest(t, router, http.MethodPost, "/forum/threads/"+threadID+"/upvote", helper, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/forum/threads/"+threadID+"/upvote-status", helper, nil)
	assert.Equal(t, true, decodeBody(t, w)["hasUpvoted"])

	w = doRequest(t, router, http.MethodGet, "/forum/threads?category=housing", "", nil)
	assert.Len(t, decodeBody(t, w)["threads"], 1)

	w = doRequest(t, router, http.MethodDelete, "/forum/replies/"+replyID, asker, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, router, http.MethodDelete, "/forum/replies/"+replyID, helper, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/forum/threads/"+threadID+"/replies", "", nil)
	assert.Len(t, decodeBody(t, w)["replies"], 0)

	w = doRequest(t, router, http.MethodDelete, "/forum/threads/"+threadID, asker, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/forum/threads/"+threadID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	token, _ := signupAndLogin(t, router, "events@example.com", memberCode)
	date := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	w := doRequest(t, router, http.MethodPost, "/events", token, gin.H{"title": "Tamborrada", "date": date, "place": "Parte Vieja"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	eventID := decodeBody(t, w)["event"].(map[string]interface{})["id"].(string)

	w = doRequest(t, router, http.MethodPost, "/events", token, gin.H{"title": "Past", "date": "2001-01-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/calendar/days/"+date, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeBody(t, w)["entries"], 1)

	w = doRequest(t, router, http.MethodGet, "/calendar/months/"+date[:7], "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, date[:7], decodeBody(t, w)["month"])

	w = doRequest(t, router, http.MethodGet, "/calendar/months/2025-13", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/calendar/upcoming?tz=Not/AZone", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/calendar/upcoming?limit=3&tz=Europe/Madrid", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeBody(t, w)["entries"], 1)

	w = doRequest(t, router, http.MethodDelete, "/events/"+eventID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/events", "", nil)
	assert.Len(t, decodeBody(t, w)["events"], 0)
}

func TestAdminRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	admin, adminID := signupAndLogin(t, router, "boss@example.com", adminCode)
	member, memberID := signupAndLogin(t, router, "member@example.com", "")

	w := doRequest(t, router, http.MethodGet, "/admin/users", member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, router, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeBody(t, w)["users"], 2)

	w = doRequest(t, router, http.MethodDelete, "/admin/users/"+adminID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/admin/users/"+memberID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{"email": "member@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyticsAndLeaderboardRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	token, id := signupAndLogin(t, router, "writer@example.com", memberCode)

	w := doRequest(t, router, http.MethodPost, "/posts", token, gin.H{"title": "Surf at Zurriola", "category": "activities", "activityName": "Surf"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/track-search", "", "{not json")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodPost, "/track-search", "", gin.H{"query": " Surf "})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/analytics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analytics := decodeBody(t, w)["analytics"].(map[string]interface{})
	assert.Equal(t, float64(1), analytics["totalPosts"])
	assert.Equal(t, map[string]interface{}{"surf": float64(1)}, analytics["topSearches"])

	w = doRequest(t, router, http.MethodGet, "/leaderboard?limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	contributors := decodeBody(t, w)["contributors"].([]interface{})
	require.Len(t, contributors, 1)
	top := contributors[0].(map[string]interface{})
	assert.Equal(t, id, top["userId"])
	assert.Equal(t, float64(5), top["totalScore"])

	// a malformed limit falls back to the default
	w = doRequest(t, router, http.MethodGet, "/leaderboard?limit=abc", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitedRoutes(t *testing.T) {
	router := newTestRouter(t, middleware.NewIPRateLimiter(0.001, 2))

	for i := 0; i < 2; i++ {
		w := doRequest(t, router, http.MethodPost, "/track-search", "", gin.H{"query": "pintxos"})
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(t, router, http.MethodPost, "/login", "", gin.H{"email": "a@example.com", "password": "x"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_001", decodeBody(t, w)["code"])

	// reads are not limited
	w = doRequest(t, router, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
