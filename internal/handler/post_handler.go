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

// maxImageBytes caps a single uploaded photo
const maxImageBytes = 10 << 20

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Index lists all posts, newest first, with their comments
func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "/login")
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"notice": flash.Pop(c),
		"posts":  posts,
	})
}

// Create handles the multipart post form with its optional photo
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Not logged in")
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Invalid post form", err.Error()), "/")
		return
	}

	var image *service.ImageUpload
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader.Filename != "" {
		if fileHeader.Size > maxImageBytes {
			handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Image is too large", ""), "/")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			handleServiceError(c, response.NewAppError(response.ErrCodeInternal, "Failed to read upload", err.Error()), "/")
			return
		}
		defer file.Close()
		image = &service.ImageUpload{Filename: fileHeader.Filename, Reader: file}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID, &req, image)
	if err != nil {
		handleServiceError(c, err, "/")
		return
	}

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusCreated, post)
		return
	}
	flash.Set(c, "Post created")
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes a post the caller owns
func (h *PostHandler) Delete(c *gin.Context) {
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

	if err := h.postService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		handleServiceError(c, err, "/")
		return
	}

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
		return
	}
	flash.Set(c, "Post deleted")
	c.Redirect(http.StatusSeeOther, "/")
}
