package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/models"
	"github.com/ormlab/blogapi/utils"
)

// CommentController manages comments under a post.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// ListComments returns a page of comments for one post, newest last.
func (c *CommentController) ListComments(ctx *gin.Context) {
	var post models.Post
	if err := c.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := c.db.Model(&models.Comment{}).Where("post_id = ?", post.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.DBError(ctx, err, "comment not found")
		return
	}

	var comments []models.Comment
	err := query.
		Preload("Author").
		Order("created_at ASC, id ASC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		utils.DBError(ctx, err, "comment not found")
		return
	}

	utils.List(ctx, comments, page, limit, total)
}

// CreateComment adds a comment by an existing user to an existing post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		AuthorID uint   `json:"authorId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var post models.Post
	if err := c.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	var author models.User
	if err := c.db.First(&author, req.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusBadRequest, "author not found")
			return
		}
		utils.DBError(ctx, err, "comment not found")
		return
	}

	comment := models.Comment{
		Content:  req.Content,
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.DBError(ctx, err, "comment not found")
		return
	}
	comment.Author = &author

	ctx.JSON(http.StatusCreated, comment)
}
