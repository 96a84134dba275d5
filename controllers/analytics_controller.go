package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/models"
	"github.com/ormlab/blogapi/utils"
)

// AnalyticsController serves read-only aggregate views over the dataset.
type AnalyticsController struct {
	db *gorm.DB
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db}
}

type categoryStat struct {
	Category   string  `json:"category"`
	PostCount  int64   `json:"postCount"`
	TotalViews int64   `json:"totalViews"`
	AvgViews   float64 `json:"avgViews"`
}

type authorStat struct {
	AuthorID  uint   `json:"authorId"`
	Name      string `json:"name"`
	PostCount int64  `json:"postCount"`
}

// userActivityQuery is a fixture: it is reproduced literally on every call and
// the rows are returned verbatim. Subselects keep the per-user counts exact
// regardless of how posts and comments fan out.
const userActivityQuery = `
SELECT u.id AS user_id,
       u.name AS name,
       u.email AS email,
       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS post_count,
       (SELECT COUNT(*) FROM comments c WHERE c.author_id = u.id) AS comment_count,
       (SELECT COALESCE(SUM(p.views), 0) FROM posts p WHERE p.author_id = u.id) AS total_views
FROM users u
WHERE u.is_active = ?
ORDER BY post_count DESC, comment_count DESC, user_id ASC
LIMIT 10`

// PostAnalytics returns per-category rollups and the top authors by post count.
func (a *AnalyticsController) PostAnalytics(ctx *gin.Context) {
	var categoryStats []categoryStat
	err := a.db.Model(&models.Category{}).
		Select("categories.name AS category, COUNT(p.id) AS post_count, COALESCE(SUM(p.views), 0) AS total_views, COALESCE(AVG(p.views), 0) AS avg_views").
		Joins("LEFT JOIN post_categories pc ON pc.category_id = categories.id").
		Joins("LEFT JOIN posts p ON p.id = pc.post_id").
		Group("categories.id, categories.name").
		Order("post_count DESC, categories.name ASC").
		Scan(&categoryStats).Error
	if err != nil {
		utils.DBError(ctx, err, "analytics unavailable")
		return
	}

	var topAuthors []authorStat
	err = a.db.Model(&models.Post{}).
		Select("users.id AS author_id, users.name AS name, COUNT(posts.id) AS post_count").
		Joins("JOIN users ON users.id = posts.author_id").
		Group("users.id, users.name").
		Order("post_count DESC, users.id ASC").
		Limit(5).
		Scan(&topAuthors).Error
	if err != nil {
		utils.DBError(ctx, err, "analytics unavailable")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"categoryStats": categoryStats,
		"topAuthors":    topAuthors,
	})
}

// UserActivity executes the fixed raw SQL report for active users.
func (a *AnalyticsController) UserActivity(ctx *gin.Context) {
	var rows []map[string]interface{}
	if err := a.db.Raw(userActivityQuery, true).Scan(&rows).Error; err != nil {
		utils.DBError(ctx, err, "analytics unavailable")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": rows})
}
