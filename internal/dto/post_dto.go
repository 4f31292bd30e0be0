package dto

import (
	"time"

	"github.com/google/uuid"

	"campus-lostfound-api/internal/domain"
)

// CreatePostRequest is the multipart post form. The image file part is
// handled separately by the handler.
type CreatePostRequest struct {
	ItemName    string `form:"item_name" json:"item_name"`
	LostArea    string `form:"lost_area" json:"lost_area"`
	LostPlace   string `form:"lost_place" json:"lost_place"`
	Description string `form:"description" json:"description"`
}

// PostResponse is the public view of a post
type PostResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Username    string            `json:"username,omitempty"`
	ItemName    string            `json:"item_name"`
	LostArea    string            `json:"lost_area"`
	LostPlace   string            `json:"lost_place"`
	Description string            `json:"description,omitempty"`
	ImageKey    *string           `json:"image_key,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Comments    []CommentResponse `json:"comments"`
}

// ToPostResponse converts a domain post to its response shape
func ToPostResponse(post *domain.Post) *PostResponse {
	comments := make([]CommentResponse, 0, len(post.Comments))
	for i := range post.Comments {
		comments = append(comments, *ToCommentResponse(&post.Comments[i]))
	}

	return &PostResponse{
		ID:          post.ID,
		UserID:      post.UserID,
		Username:    post.User.Username,
		ItemName:    post.ItemName,
		LostArea:    post.LostArea,
		LostPlace:   post.LostPlace,
		Description: post.Description,
		ImageKey:    post.ImageKey,
		CreatedAt:   post.CreatedAt,
		Comments:    comments,
	}
}

// ToPostResponses converts a list of posts
func ToPostResponses(posts []*domain.Post) []*PostResponse {
	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, ToPostResponse(post))
	}
	return responses
}
