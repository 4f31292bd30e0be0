package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lostfound-api/internal/domain"
)

func TestCommentRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Username:     "taro",
		Email:        "e215720@cs.u-ryukyu.ac.jp",
		PasswordHash: "$2a$10$hash",
		Confirmed:    true,
	}
	require.NoError(t, userRepo.Create(ctx, user))

	post := &domain.Post{
		UserID:    user.ID,
		ItemName:  "Wallet",
		LostArea:  "North campus",
		LostPlace: "Cafeteria",
	}
	require.NoError(t, postRepo.Create(ctx, post))

	comment := &domain.Comment{PostID: post.ID, UserID: user.ID, Content: "I saw it near the entrance"}
	require.NoError(t, repo.Create(ctx, comment))
	assert.NotEqual(t, uuid.Nil, comment.ID)

	found, err := postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, found.Comments, 1)
	assert.Equal(t, "I saw it near the entrance", found.Comments[0].Content)
}

func TestCommentRepository_TimestampAtLeastCreationTime(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Username:     "taro",
		Email:        "e215720@cs.u-ryukyu.ac.jp",
		PasswordHash: "$2a$10$hash",
		Confirmed:    true,
	}
	require.NoError(t, userRepo.Create(ctx, user))

	post := &domain.Post{
		UserID:    user.ID,
		ItemName:  "Wallet",
		LostArea:  "North campus",
		LostPlace: "Cafeteria",
	}
	before := time.Now().Add(-time.Second)
	require.NoError(t, postRepo.Create(ctx, post))

	comment := &domain.Comment{PostID: post.ID, UserID: user.ID, Content: "seen it"}
	require.NoError(t, repo.Create(ctx, comment))

	assert.False(t, post.CreatedAt.Before(before))
	assert.False(t, comment.CreatedAt.Before(post.CreatedAt))
}
