package domain

import "github.com/google/uuid"

// Post represents a lost item reported on the board
type Post struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_posts_user_id" json:"user_id"`
	ItemName    string    `gorm:"type:varchar(100);not null" json:"item_name"`
	LostArea    string    `gorm:"type:varchar(100);not null" json:"lost_area"`
	LostPlace   string    `gorm:"type:varchar(100);not null" json:"lost_place"`
	Description string    `gorm:"type:text" json:"description"`
	ImageKey    *string   `gorm:"type:varchar(255)" json:"image_key,omitempty"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments    []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
