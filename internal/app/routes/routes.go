package routes

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/controllers"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Post      *controllers.PostController
	Forum     *controllers.ForumController
	Ledger    *controllers.LedgerController
	Calendar  *controllers.CalendarController
	Admin     *controllers.AdminController
	Analytics *controllers.AnalyticsController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.IPRateLimiter,
) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public account routes ---
	limited := router.Group("")
	limited.Use(middleware.RateLimit(limiter))
	{
		limited.POST("/signup", c.Auth.Signup)
		limited.POST("/login", c.Auth.Login)
		limited.POST("/track-search", c.Analytics.TrackSearch)
	}

	router.GET("/analytics", c.Analytics.GetAnalytics)
	router.GET("/leaderboard", c.Analytics.Leaderboard)

	// --- Public reads ---
	posts := router.Group("/posts")
	{
		posts.GET("", c.Post.ListPosts)
		posts.GET("/:id", c.Post.GetPost)
		posts.GET("/:id/comments", c.Post.ListComments)
		posts.GET("/:id/comment-count", c.Post.CommentCount)
		posts.GET("/:id/upvote-status", authMiddleware.OptionalAuth(), c.Ledger.PostUpvoteStatus)
	}

	forum := router.Group("/forum")
	{
		forum.GET("/threads", c.Forum.ListThreads)
		forum.GET("/threads/:id", c.Forum.GetThread)
		forum.GET("/threads/:id/replies", c.Forum.ListReplies)
		forum.GET("/threads/:id/upvote-status", authMiddleware.OptionalAuth(), c.Ledger.ThreadUpvoteStatus)
		forum.GET("/replies/:id/upvote-status", authMiddleware.OptionalAuth(), c.Ledger.ReplyUpvoteStatus)
	}

	router.GET("/events", c.Calendar.ListEvents)
	calendar := router.Group("/calendar")
	{
		calendar.GET("/days/:date", c.Calendar.Day)
		calendar.GET("/months/:month", c.Calendar.Month)
		calendar.GET("/upcoming", c.Calendar.Upcoming)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.GET("/user", c.Auth.CurrentUser)
		authenticated.POST("/verify-code", c.Auth.VerifyCode)

		authenticated.POST("/posts", c.Post.CreatePost)
		authenticated.DELETE("/posts/:id", c.Post.DeletePost)
		authenticated.POST("/posts/:id/comments", c.Post.AddComment)
		authenticated.DELETE("/posts/:id/comments/:commentId", c.Post.DeleteComment)
		authenticated.POST("/posts/:id/upvote", c.Ledger.UpvotePost)
		authenticated.POST("/posts/:id/report", c.Ledger.Report)

		authenticated.POST("/forum/threads", c.Forum.CreateThread)
		authenticated.DELETE("/forum/threads/:id", c.Forum.DeleteThread)
		authenticated.POST("/forum/threads/:id/replies", c.Forum.AddReply)
		authenticated.POST("/forum/threads/:id/upvote", c.Ledger.UpvoteThread)
		authenticated.DELETE("/forum/replies/:id", c.Forum.DeleteReply)
		authenticated.POST("/forum/replies/:id/upvote", c.Ledger.UpvoteReply)
		authenticated.POST("/forum/replies/:id/helpful", c.Ledger.MarkReplyHelpful)

		authenticated.POST("/events", c.Calendar.CreateEvent)
		authenticated.DELETE("/events/:id", c.Calendar.DeleteEvent)

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/users", c.Admin.ListUsers)
			admin.DELETE("/users/:id", c.Admin.DeleteUser)
		}
	}
}
