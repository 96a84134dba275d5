package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/models"
	"github.com/ormlab/blogapi/utils"
)

// PostController manages CRUD, search and ownership transfer for posts.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// ListPosts returns a page of posts including author and categories.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := p.db.Model(&models.Post{})
	if pub := ctx.Query("published"); pub != "" {
		published, err := strconv.ParseBool(pub)
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "invalid published flag")
			return
		}
		query = query.Where("published = ?", published)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	var posts []models.Post
	err := query.
		Preload("Author").
		Preload("Categories").
		Order("created_at DESC, id DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	utils.List(ctx, posts, page, limit, total)
}

// GetPost returns one post with all relations and bumps its view counter.
func (p *PostController) GetPost(ctx *gin.Context) {
	id := ctx.Param("id")

	// Atomic increment so concurrent reads never lose a view.
	res := p.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		utils.DBError(ctx, res.Error, "post not found")
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return
	}

	var post models.Post
	err := p.db.
		Preload("Author").
		Preload("Categories").
		Preload("Comments").
		Preload("Comments.Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// CreatePost inserts a post for an existing author, optionally linking categories.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Content     string `json:"content"`
		Published   bool   `json:"published"`
		AuthorID    uint   `json:"authorId" binding:"required"`
		CategoryIDs []uint `json:"categoryIds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var author models.User
	if err := p.db.First(&author, req.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusBadRequest, "author not found")
			return
		}
		utils.DBError(ctx, err, "post not found")
		return
	}

	post := models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  author.ID,
	}
	if len(req.CategoryIDs) > 0 {
		var categories []models.Category
		if err := p.db.Find(&categories, req.CategoryIDs).Error; err != nil {
			utils.DBError(ctx, err, "post not found")
			return
		}
		if len(categories) != len(req.CategoryIDs) {
			utils.Fail(ctx, http.StatusBadRequest, "unknown category id")
			return
		}
		post.Categories = categories
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update and optionally replaces the category set.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Published   *bool   `json:"published"`
		CategoryIDs *[]uint `json:"categoryIds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&post).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.CategoryIDs != nil {
			var categories []models.Category
			if len(*req.CategoryIDs) > 0 {
				if err := tx.Find(&categories, *req.CategoryIDs).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&post).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	var updated models.Post
	if err := p.db.Preload("Author").Preload("Categories").First(&updated, post.ID).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeletePost removes a post, its comments and its junction rows.
func (p *PostController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// SearchPosts combines up to seven optional filters conjunctively, with the
// free-text clause OR'd over title and content.
func (p *PostController) SearchPosts(ctx *gin.Context) {
	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := p.db.Model(&models.Post{})

	if q := ctx.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where(
			"id IN (SELECT pc.post_id FROM post_categories pc JOIN categories c ON c.id = pc.category_id WHERE c.name = ?)",
			category,
		)
	}
	if author := ctx.Query("author"); author != "" {
		query = query.Where(
			"author_id IN (SELECT id FROM users WHERE name LIKE ?)",
			"%"+author+"%",
		)
	}
	if pub := ctx.Query("published"); pub != "" {
		published, err := strconv.ParseBool(pub)
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "invalid published flag")
			return
		}
		query = query.Where("published = ?", published)
	}
	if mv := ctx.Query("min_views"); mv != "" {
		minViews, err := strconv.Atoi(mv)
		if err != nil || minViews < 0 {
			utils.Fail(ctx, http.StatusBadRequest, "invalid min_views")
			return
		}
		query = query.Where("views >= ?", minViews)
	}
	if from := ctx.Query("date_from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "invalid date_from")
			return
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := ctx.Query("date_to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "invalid date_to")
			return
		}
		query = query.Where("created_at <= ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	var posts []models.Post
	err := query.
		Preload("Author").
		Preload("Categories").
		Order("created_at DESC, id DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		utils.DBError(ctx, err, "post not found")
		return
	}

	utils.List(ctx, posts, page, limit, total)
}

// TransferPost reassigns a post to the user owning the given email. All three
// steps run in one transaction; either participant missing rolls everything back.
func (p *PostController) TransferPost(ctx *gin.Context) {
	var req struct {
		NewAuthorEmail string `json:"newAuthorEmail" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var (
		post       models.Post
		prevAuthor models.User
	)
	errNewAuthor := errors.New("new author not found")
	errPost := errors.New("post not found")

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var newAuthor models.User
		if err := tx.Where("email = ?", req.NewAuthorEmail).First(&newAuthor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNewAuthor
			}
			return err
		}
		if err := tx.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPost
			}
			return err
		}
		if err := tx.First(&prevAuthor, post.AuthorID).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Update("author_id", newAuthor.ID).Error; err != nil {
			return err
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, errNewAuthor), errors.Is(err, errPost):
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	default:
		utils.DBError(ctx, err, "post not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"post":           post,
		"previousAuthor": prevAuthor,
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
