package models

// Client is a customer a user prepares estimates for. Rows are scoped to the
// owning user; every operation filters on user_id.
type Client struct {
	ClientID    string `gorm:"column:client_id;primaryKey"`
	UserID      string `gorm:"column:user_id;not null;index"`
	Email       string `gorm:"column:email;not null"`
	FirstName   string `gorm:"column:first_name;not null"`
	LastName    string `gorm:"column:last_name;not null"`
	CompanyName string `gorm:"column:company_name"`
}

func (Client) TableName() string { return "clients" }
