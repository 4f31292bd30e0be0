package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/flash"
	"campus-lostfound-api/internal/middleware"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create adds a comment to an existing post
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Not logged in")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Invalid post ID", ""), "/")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Invalid comment form", err.Error()), "/")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		handleServiceError(c, err, "/")
		return
	}

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusCreated, comment)
		return
	}
	flash.Set(c, "Comment added")
	c.Redirect(http.StatusSeeOther, "/")
}
