package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/models"
	"github.com/ormlab/blogapi/utils"
)

// CategoryController manages the category catalogue.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

type categoryWithCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	PostCount int64  `json:"postCount"`
}

// ListCategories returns every category with its linked post count.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []categoryWithCount
	err := c.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.color, COUNT(pc.post_id) AS post_count").
		Joins("LEFT JOIN post_categories pc ON pc.category_id = categories.id").
		Group("categories.id").
		Order("categories.name").
		Scan(&categories).Error
	if err != nil {
		utils.DBError(ctx, err, "category not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory inserts a category; the name is unique.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,min=1"`
		Color string `json:"color"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	category := models.Category{Name: req.Name, Color: req.Color}
	if err := c.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Fail(ctx, http.StatusBadRequest, "category with this name already exists")
			return
		}
		utils.DBError(ctx, err, "category not found")
		return
	}

	ctx.JSON(http.StatusCreated, category)
}
