package models

import "time"

// Post is an article written by a user and tagged with categories.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Content    string     `gorm:"type:text" json:"content"`
	Published  bool       `gorm:"not null;default:false" json:"published"`
	Views      int        `gorm:"not null;default:0" json:"views"`
	AuthorID   uint       `gorm:"index;not null" json:"authorId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`
	Comments   []Comment  `json:"comments,omitempty"`
}
