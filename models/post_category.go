package models

// PostCategory is the junction row between posts and categories.
// The composite primary key enforces the unique (post, category) pair.
type PostCategory struct {
	PostID     uint `gorm:"primaryKey" json:"postId"`
	CategoryID uint `gorm:"primaryKey" json:"categoryId"`
}
