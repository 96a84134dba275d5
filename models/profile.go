package models

// Profile holds the optional one-to-one extension of a user.
// UserID is unique so a user can never own more than one profile.
type Profile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Bio      string `gorm:"size:512" json:"bio"`
	Avatar   string `gorm:"size:512" json:"avatar"`
	Website  string `gorm:"size:255" json:"website"`
	Location string `gorm:"size:128" json:"location"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"userId"`
}
