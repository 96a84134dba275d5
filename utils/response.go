package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pagination describes the page window a list response was cut from.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListResponse is the uniform envelope for paginated collections.
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// List writes a paginated collection response.
func List(ctx *gin.Context, data interface{}, page, limit int, total int64) {
	ctx.JSON(http.StatusOK, ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: TotalPages(total, limit),
		},
	})
}

// Fail writes an error body with the given status.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// DBError maps a query-layer error onto the HTTP contract: duplicate key and
// record-not-found are client errors, everything else is an opaque 500.
func DBError(ctx *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(ctx, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Fail(ctx, http.StatusBadRequest, "record already exists")
	default:
		Sugar.Errorw("database error", "err", err, "path", ctx.Request.URL.Path)
		Fail(ctx, http.StatusInternalServerError, "internal server error")
	}
}
