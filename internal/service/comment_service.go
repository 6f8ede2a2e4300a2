package service

import (
	"context"
	"errors"
	"strings"

	"aperture/internal/models"
	"aperture/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	photoRepo   repository.PhotoRepository
}

type CreateCommentInput struct {
	UserID   uint
	PhotoID  uint
	Content  string
	ParentID *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	photoRepo repository.PhotoRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		photoRepo:   photoRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.photoRepo.GetByID(ctx, in.PhotoID, 0); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLength {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				return nil, models.NewValidationError("Parent comment does not exist")
			}
			return nil, err
		}
		if parent.PhotoID != in.PhotoID {
			return nil, models.NewValidationError("Parent comment belongs to another photo")
		}
	}

	comment := &models.Comment{
		Content:  content,
		UserID:   in.UserID,
		PhotoID:  in.PhotoID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	if _, err := s.photoRepo.GetByID(ctx, photoID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPhoto(ctx, photoID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLength {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a single comment. Replies to it are left in place
// and keep their parent_id; clients render them at top level.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, models.NewInternalError(err)
	}

	return comment, nil
}
