package models

import "time"

// User is an account holder. The primary key is the identity provider's
// subject, not a locally generated id. Deletion is logical: is_active flips
// to false and the row is retained.
type User struct {
	UserID          string    `gorm:"column:user_id;primaryKey"`
	Email           string    `gorm:"column:email;not null;uniqueIndex"`
	FirstName       string    `gorm:"column:first_name;not null"`
	LastName        string    `gorm:"column:last_name;not null"`
	CompanyName     string    `gorm:"column:company_name"`
	PhoneNumber     string    `gorm:"column:phone_number"`
	Address         string    `gorm:"column:address"`
	ProfileImageURL string    `gorm:"column:profile_image_url"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
