package dto

import (
	"time"

	"github.com/google/uuid"

	"campus-lostfound-api/internal/domain"
)

// CreateCommentRequest is the comment form
type CreateCommentRequest struct {
	Content string `form:"content" json:"content"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCommentResponse converts a domain comment to its response shape
func ToCommentResponse(comment *domain.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
