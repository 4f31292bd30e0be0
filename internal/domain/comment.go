package domain

import "github.com/google/uuid"

// Comment represents a comment on a post. Comments are immutable once
// created; there is no update or delete path for them.
type Comment struct {
	BaseModel
	PostID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_post_id" json:"post_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_user_id" json:"user_id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	Post    Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	User    User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
