package domain

import "time"

// User represents a registered account on the lost-and-found board.
// PasswordHash holds a bcrypt hash, never a plaintext credential.
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_users_username" json:"username"`
	Email        string     `gorm:"type:varchar(120);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Confirmed    bool       `gorm:"not null;default:false" json:"confirmed"`
	ConfirmedAt  *time.Time `gorm:"type:timestamp" json:"confirmed_at,omitempty"`
	Posts        []Post     `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
