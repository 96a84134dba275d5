package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ormlab/blogapi/models"
	"github.com/ormlab/blogapi/utils"
)

// UserController manages CRUD operations for users and their profiles.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type profileInput struct {
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

// ListUsers returns a page of users with optional role filter, substring
// search over name/email and profile inclusion.
func (u *UserController) ListUsers(ctx *gin.Context) {
	page, limit := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := u.db.Model(&models.User{})

	if role := ctx.Query("role"); role != "" {
		if !models.Role(role).Valid() {
			utils.Fail(ctx, http.StatusBadRequest, "invalid role")
			return
		}
		query = query.Where("role = ?", role)
	}
	if search := ctx.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}

	if include, _ := strconv.ParseBool(ctx.Query("include_profile")); include {
		query = query.Preload("Profile")
	}

	var users []models.User
	if err := query.Order("id").Offset(utils.Offset(page, limit)).Limit(limit).Find(&users).Error; err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}

	utils.List(ctx, users, page, limit, total)
}

// GetUser returns one user with all declared relations eagerly loaded.
func (u *UserController) GetUser(ctx *gin.Context) {
	var user models.User
	err := u.db.
		Preload("Profile").
		Preload("Posts").
		Preload("Posts.Categories").
		Preload("Comments").
		First(&user, "id = ?", ctx.Param("id")).Error
	if err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// CreateUser inserts a user, optionally together with a nested profile.
func (u *UserController) CreateUser(ctx *gin.Context) {
	var req struct {
		Email   string        `json:"email" binding:"required,email"`
		Name    string        `json:"name" binding:"required"`
		Age     int           `json:"age"`
		Role    string        `json:"role"`
		Profile *profileInput `json:"profile"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			utils.Fail(ctx, http.StatusBadRequest, "invalid role")
			return
		}
	}

	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Age:      req.Age,
		Role:     role,
		IsActive: true,
	}
	if req.Profile != nil {
		user.Profile = &models.Profile{
			Bio:      req.Profile.Bio,
			Avatar:   req.Profile.Avatar,
			Website:  req.Profile.Website,
			Location: req.Profile.Location,
		}
	}

	if err := u.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Fail(ctx, http.StatusBadRequest, "user with this email already exists")
			return
		}
		utils.DBError(ctx, err, "user not found")
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial scalar update and upserts the profile when one
// is supplied.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	var req struct {
		Email    *string       `json:"email"`
		Name     *string       `json:"name"`
		Age      *int          `json:"age"`
		Role     *string       `json:"role"`
		IsActive *bool         `json:"isActive"`
		Profile  *profileInput `json:"profile"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Role != nil && !models.Role(*req.Role).Valid() {
		utils.Fail(ctx, http.StatusBadRequest, "invalid role")
		return
	}

	var user models.User
	if err := u.db.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Profile != nil {
			profile := models.Profile{
				Bio:      req.Profile.Bio,
				Avatar:   req.Profile.Avatar,
				Website:  req.Profile.Website,
				Location: req.Profile.Location,
				UserID:   user.ID,
			}
			// Update-if-exists-else-create keyed on the unique user_id column.
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"bio", "avatar", "website", "location"}),
			}).Create(&profile).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Fail(ctx, http.StatusBadRequest, "user with this email already exists")
			return
		}
		utils.DBError(ctx, err, "user not found")
		return
	}

	var updated models.User
	if err := u.db.Preload("Profile").First(&updated, user.ID).Error; err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteUser removes a user together with its dependents, in foreign-key
// order inside one transaction.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE author_id = ?)", user.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id IN (SELECT id FROM posts WHERE author_id = ?)", user.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utils.DBError(ctx, err, "user not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
