package models

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether the role is one of the known enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is an account that owns a profile, posts and comments.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Age       int       `json:"age"`
	Role      Role      `gorm:"size:16;not null;default:USER" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Profile   *Profile  `json:"profile,omitempty"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments  []Comment `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}
