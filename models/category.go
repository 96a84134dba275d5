package models

// Category labels posts; the relation to posts is many-to-many.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:16" json:"color"`
	Posts []Post `gorm:"many2many:post_categories" json:"posts,omitempty"`
}
