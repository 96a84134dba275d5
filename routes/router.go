package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/config"
	"github.com/ormlab/blogapi/controllers"
	"github.com/ormlab/blogapi/middleware"
	"github.com/ormlab/blogapi/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file so request noise stays out of the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	categoryController := controllers.NewCategoryController(db)
	analyticsController := controllers.NewAnalyticsController(db)

	api := r.Group("/api")

	users := api.Group("/users")
	users.GET("", userController.ListUsers)
	users.GET("/:id", userController.GetUser)

	posts := api.Group("/posts")
	posts.GET("", postController.ListPosts)
	posts.GET("/search", postController.SearchPosts)
	posts.GET("/:id", postController.GetPost)
	posts.GET("/:id/comments", commentController.ListComments)

	api.GET("/categories", categoryController.ListCategories)
	api.GET("/analytics/posts", analyticsController.PostAnalytics)
	api.GET("/raw/user-activity", analyticsController.UserActivity)

	writes := api.Group("")
	writes.Use(middleware.RateLimit())
	writes.POST("/users", userController.CreateUser)
	writes.PUT("/users/:id", userController.UpdateUser)
	writes.DELETE("/users/:id", userController.DeleteUser)
	writes.POST("/posts", postController.CreatePost)
	writes.PUT("/posts/:id", postController.UpdatePost)
	writes.DELETE("/posts/:id", postController.DeletePost)
	writes.POST("/posts/:id/transfer", postController.TransferPost)
	writes.POST("/posts/:id/comments", commentController.CreateComment)
	writes.POST("/categories", categoryController.CreateCategory)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
