package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/metrics"
	"campus-lostfound-api/internal/repository"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/storage"
)

// ImageUpload is an optional uploaded image accompanying a post
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// PostService defines the interface for post business logic
type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req *dto.CreatePostRequest, image *ImageUpload) (*dto.PostResponse, error)
	ListPosts(ctx context.Context) ([]*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

// postServiceImpl is the implementation of PostService
type postServiceImpl struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	images   storage.ImageStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPostService creates a new instance of PostService
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	images storage.ImageStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
		userRepo: userRepo,
		images:   images,
		metrics:  m,
		logger:   logger,
	}
}

// CreatePost validates the form, stores the optional image and persists
// the post. Only confirmed accounts may post.
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uuid.UUID, req *dto.CreatePostRequest, image *ImageUpload) (*dto.PostResponse, error) {
	user, err := requireConfirmedUser(ctx, s.userRepo, userID, "posting")
	if err != nil {
		return nil, err
	}

	itemName := strings.TrimSpace(req.ItemName)
	lostArea := strings.TrimSpace(req.LostArea)
	lostPlace := strings.TrimSpace(req.LostPlace)
	if itemName == "" || lostArea == "" || lostPlace == "" {
		return nil, response.NewAppError(response.ErrCodeValidation,
			"Item name, area and place are all required", "")
	}

	var imageKey *string
	if image != nil && image.Filename != "" {
		key, err := s.images.Save(ctx, image.Filename, image.Reader)
		if err != nil {
			if errors.Is(err, storage.ErrDisallowedExtension) {
				return nil, response.NewAppError(response.ErrCodeValidation,
					"Only png, jpg, jpeg and gif images can be attached", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to store image", err.Error())
		}
		imageKey = &key
		s.metrics.IncrementImageUploaded()
	}

	post := &domain.Post{
		UserID:      user.ID,
		ItemName:    itemName,
		LostArea:    lostArea,
		LostPlace:   lostPlace,
		Description: strings.TrimSpace(req.Description),
		ImageKey:    imageKey,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if imageKey != nil {
			// The image is orphaned if the row never landed
			if delErr := s.images.Delete(ctx, *imageKey); delErr != nil {
				s.logger.Warn("Failed to remove image after post create failure",
					zap.String("image_key", *imageKey), zap.Error(delErr))
			}
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create post", err.Error())
	}

	s.metrics.IncrementPostCreated()
	s.logger.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("user_id", user.ID.String()),
	)

	post.User = *user
	return dto.ToPostResponse(post), nil
}

// ListPosts returns all posts, newest first
func (s *postServiceImpl) ListPosts(ctx context.Context) ([]*dto.PostResponse, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list posts", err.Error())
	}
	return dto.ToPostResponses(posts), nil
}

// DeletePost removes a post the caller owns, together with its comments
// and stored image.
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load post", err.Error())
	}

	if post.UserID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the author can delete a post", "")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete post", err.Error())
	}

	if post.ImageKey != nil {
		if err := s.images.Delete(ctx, *post.ImageKey); err != nil {
			s.logger.Warn("Failed to remove image of deleted post",
				zap.String("image_key", *post.ImageKey), zap.Error(err))
		}
	}

	s.logger.Info("Post deleted",
		zap.String("post_id", postID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// requireConfirmedUser loads the acting user and rejects accounts that
// have not confirmed their email address. Authentication happened in
// the middleware; this is the separate confirmation gate.
func requireConfirmedUser(ctx context.Context, userRepo repository.UserRepository, userID uuid.UUID, activity string) (*domain.User, error) {
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Account no longer exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load user", err.Error())
	}
	if !user.Confirmed {
		return nil, response.NewAppError(response.ErrCodeForbidden,
			"Confirm your email address before "+activity, "")
	}
	return user, nil
}
