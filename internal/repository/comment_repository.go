package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
)

// CommentRepository defines the interface for comment data access.
// Comments are only ever read through their post's Preload, so the
// repository's write side is all there is.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
