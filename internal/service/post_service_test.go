package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-lostfound-api/internal/domain"
	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/storage"
)

type postFixture struct {
	postRepo *MockPostRepository
	userRepo *MockUserRepository
	images   *MockImageStore
	svc      PostService
}

func newPostFixture(t *testing.T, user *domain.User) *postFixture {
	t.Helper()

	f := &postFixture{
		postRepo: &MockPostRepository{},
		userRepo: &MockUserRepository{},
		images:   &MockImageStore{},
	}
	if user != nil {
		f.userRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return user, nil
		}
	}
	f.svc = NewPostService(f.postRepo, f.userRepo, f.images, newTestMetrics(), zap.NewNop())
	return f
}

func confirmedUser() *domain.User {
	user := &domain.User{
		Username:  "alice",
		Email:     "alice@cs.u-ryukyu.ac.jp",
		Confirmed: true,
	}
	user.ID = uuid.New()
	return user
}

func TestPostService_CreatePost_WithoutImage(t *testing.T) {
	user := confirmedUser()
	f := newPostFixture(t, user)

	var created *domain.Post
	f.postRepo.CreateFunc = func(ctx context.Context, post *domain.Post) error {
		post.ID = uuid.New()
		created = post
		return nil
	}

	result, err := f.svc.CreatePost(context.Background(), user.ID, &dto.CreatePostRequest{
		ItemName:    "Blue wallet",
		LostArea:    "Engineering building",
		LostPlace:   "Room 321",
		Description: "Left on a desk",
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, user.ID, created.UserID)
	assert.Nil(t, created.ImageKey, "a post without an upload must have no image key")
	assert.Nil(t, result.ImageKey)
	assert.Equal(t, "alice", result.Username)
}

func TestPostService_CreatePost_WithImage(t *testing.T) {
	user := confirmedUser()
	f := newPostFixture(t, user)

	f.images.SaveFunc = func(ctx context.Context, filename string, r io.Reader) (string, error) {
		return "abc123_wallet.png", nil
	}
	f.postRepo.CreateFunc = func(ctx context.Context, post *domain.Post) error {
		post.ID = uuid.New()
		return nil
	}

	result, err := f.svc.CreatePost(context.Background(), user.ID, &dto.CreatePostRequest{
		ItemName:  "Blue wallet",
		LostArea:  "Engineering building",
		LostPlace: "Room 321",
	}, &ImageUpload{Filename: "wallet.png", Reader: strings.NewReader("png bytes")})

	require.NoError(t, err)
	require.NotNil(t, result.ImageKey)
	assert.Equal(t, "abc123_wallet.png", *result.ImageKey)
}

func TestPostService_CreatePost_DisallowedExtension(t *testing.T) {
	user := confirmedUser()
	f := newPostFixture(t, user)

	f.images.SaveFunc = func(ctx context.Context, filename string, r io.Reader) (string, error) {
		return "", storage.ErrDisallowedExtension
	}
	createCalled := false
	f.postRepo.CreateFunc = func(ctx context.Context, post *domain.Post) error {
		createCalled = true
		return nil
	}

	_, err := f.svc.CreatePost(context.Background(), user.ID, &dto.CreatePostRequest{
		ItemName:  "Blue wallet",
		LostArea:  "Engineering building",
		LostPlace: "Room 321",
	}, &ImageUpload{Filename: "wallet.exe", Reader: strings.NewReader("mz")})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
	assert.False(t, createCalled, "no post row may be created for a rejected upload")
}

func TestPostService_CreatePost_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreatePostRequest
	}{
		{"missing item name", dto.CreatePostRequest{LostArea: "North campus", LostPlace: "Cafeteria"}},
		{"missing area", dto.CreatePostRequest{ItemName: "Umbrella", LostPlace: "Cafeteria"}},
		{"missing place", dto.CreatePostRequest{ItemName: "Umbrella", LostArea: "North campus"}},
		{"whitespace only", dto.CreatePostRequest{ItemName: "  ", LostArea: "North campus", LostPlace: "Cafeteria"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := confirmedUser()
			f := newPostFixture(t, user)

			_, err := f.svc.CreatePost(context.Background(), user.ID, &tt.req, nil)

			var appErr *response.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, response.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestPostService_CreatePost_UnconfirmedUserRejected(t *testing.T) {
	user := confirmedUser()
	user.Confirmed = false
	f := newPostFixture(t, user)

	createCalled := false
	f.postRepo.CreateFunc = func(ctx context.Context, post *domain.Post) error {
		createCalled = true
		return nil
	}

	_, err := f.svc.CreatePost(context.Background(), user.ID, &dto.CreatePostRequest{
		ItemName:  "Blue wallet",
		LostArea:  "Engineering building",
		LostPlace: "Room 321",
	}, nil)

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeForbidden, appErr.Code)
	assert.False(t, createCalled)
}

func TestPostService_CreatePost_CleansUpImageOnFailure(t *testing.T) {
	user := confirmedUser()
	f := newPostFixture(t, user)

	var deleted []string
	f.images.SaveFunc = func(ctx context.Context, filename string, r io.Reader) (string, error) {
		return "abc123_wallet.png", nil
	}
	f.images.DeleteFunc = func(ctx context.Context, key string) error {
		deleted = append(deleted, key)
		return nil
	}
	f.postRepo.CreateFunc = func(ctx context.Context, post *domain.Post) error {
		return errors.New("database gone")
	}

	_, err := f.svc.CreatePost(context.Background(), user.ID, &dto.CreatePostRequest{
		ItemName:  "Blue wallet",
		LostArea:  "Engineering building",
		LostPlace: "Room 321",
	}, &ImageUpload{Filename: "wallet.png", Reader: strings.NewReader("png bytes")})

	require.Error(t, err)
	assert.Equal(t, []string{"abc123_wallet.png"}, deleted)
}

func TestPostService_ListPosts(t *testing.T) {
	user := confirmedUser()
	f := newPostFixture(t, nil)

	first := &domain.Post{UserID: user.ID, User: *user, ItemName: "Wallet", LostArea: "North", LostPlace: "Cafeteria"}
	first.ID = uuid.New()
	second := &domain.Post{UserID: user.ID, User: *user, ItemName: "Umbrella", LostArea: "South", LostPlace: "Library"}
	second.ID = uuid.New()

	f.postRepo.FindAllFunc = func(ctx context.Context) ([]*domain.Post, error) {
		return []*domain.Post{second, first}, nil
	}

	result, err := f.svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Umbrella", result[0].ItemName)
	assert.Equal(t, "alice", result[0].Username)
}

func TestPostService_DeletePost(t *testing.T) {
	owner := confirmedUser()
	imageKey := "abc123_wallet.png"
	post := &domain.Post{UserID: owner.ID, ItemName: "Wallet", LostArea: "North", LostPlace: "Cafeteria", ImageKey: &imageKey}
	post.ID = uuid.New()

	t.Run("owner deletes post and image", func(t *testing.T) {
		f := newPostFixture(t, owner)
		var deletedPost uuid.UUID
		var deletedImages []string
		f.postRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
			return post, nil
		}
		f.postRepo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deletedPost = id
			return nil
		}
		f.images.DeleteFunc = func(ctx context.Context, key string) error {
			deletedImages = append(deletedImages, key)
			return nil
		}

		require.NoError(t, f.svc.DeletePost(context.Background(), owner.ID, post.ID))
		assert.Equal(t, post.ID, deletedPost)
		assert.Equal(t, []string{imageKey}, deletedImages)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newPostFixture(t, owner)
		deleteCalled := false
		f.postRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
			return post, nil
		}
		f.postRepo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deleteCalled = true
			return nil
		}

		err := f.svc.DeletePost(context.Background(), uuid.New(), post.ID)

		var appErr *response.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, response.ErrCodeForbidden, appErr.Code)
		assert.False(t, deleteCalled)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		f := newPostFixture(t, owner)

		err := f.svc.DeletePost(context.Background(), owner.ID, uuid.New())

		var appErr *response.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
	})
}
