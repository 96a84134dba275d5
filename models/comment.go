package models

import "time"

// Comment is a reply on a post, written by a user.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	PostID    uint      `gorm:"index;not null" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
