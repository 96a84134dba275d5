package utils

import "strconv"

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePagination reads page/limit query values with the usual clamping.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page = 1
	limit = defaultLimit
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxLimit {
		limit = l
	}
	return page, limit
}

// Offset converts a page window into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
