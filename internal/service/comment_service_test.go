package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aperture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPhotoFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPhoto(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	return s.listByPhotoFn(ctx, photoID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPhotoFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("Photo Missing", func(t *testing.T) {
		photoRepo := noopPhotoRepo()
		photoRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Photo, error) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		svc := NewCommentService(noopCommentRepo(), photoRepo)

		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 99, Content: "Hello"})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("Empty Content", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPhotoRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 1, Content: "   "})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Content Too Long", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPhotoRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  2,
			PhotoID: 1,
			Content: strings.Repeat("a", models.MaxCommentLength+1),
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Parent Missing", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		parentID := uint(77)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 1, Content: "Hi", ParentID: &parentID})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Parent Lookup Failure Is Not A Validation Error", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, models.NewInternalError(errors.New("connection reset"))
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		parentID := uint(77)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 1, Content: "Hi", ParentID: &parentID})
		assertAppErrorCode(t, err, models.CodeInternal)
	})

	t.Run("Parent From Another Photo", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PhotoID: 2}, nil
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		parentID := uint(4)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 1, Content: "Hi", ParentID: &parentID})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Reply Success", func(t *testing.T) {
		var created *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			if created != nil && id == created.ID {
				return created, nil
			}
			return &models.Comment{ID: id, PhotoID: 1}, nil
		}
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 9
			created = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		parentID := uint(4)
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PhotoID: 1, Content: "Superbe lumière", ParentID: &parentID})
		require.NoError(t, err)
		require.NotNil(t, comment.ParentID)
		assert.Equal(t, uint(4), *comment.ParentID)
		assert.Equal(t, uint(1), comment.PhotoID)
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Author", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 99}, nil
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 2, CommentID: 4, Content: "edit"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("Success", func(t *testing.T) {
		stored := &models.Comment{ID: 4, UserID: 2, Content: "original"}
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) { return stored, nil }
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		comment, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 2, CommentID: 4, Content: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", comment.Content)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Author", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 99}, nil
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 2, CommentID: 4})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("Deletes Only the Target", func(t *testing.T) {
		var deletedIDs []uint
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 2}, nil
		}
		commentRepo.deleteFn = func(_ context.Context, id uint) error {
			deletedIDs = append(deletedIDs, id)
			return nil
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 2, CommentID: 4})
		require.NoError(t, err)
		assert.Equal(t, []uint{4}, deletedIDs, "replies are never touched")
	})

	t.Run("Missing Comment", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 2, CommentID: 99})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("Lookup Failure Is Not A 404", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, models.NewInternalError(errors.New("connection reset"))
		}
		svc := NewCommentService(commentRepo, noopPhotoRepo())

		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 2, CommentID: 4})
		assertAppErrorCode(t, err, models.CodeInternal)
	})
}
