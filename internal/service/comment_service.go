package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/metrics"
	"campus-lostfound-api/internal/repository"
	"campus-lostfound-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, userID, postID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateComment persists a comment on an existing post. Only confirmed
// accounts may comment; a missing post is a not-found error.
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID, postID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	user, err := requireConfirmedUser(ctx, s.userRepo, userID, "commenting")
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Comment content is required", "")
	}

	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load post", err.Error())
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	s.metrics.IncrementCommentCreated()
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID.String()),
		zap.String("user_id", user.ID.String()),
	)

	return dto.ToCommentResponse(comment), nil
}
