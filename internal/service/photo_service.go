// Package service contains the application's business logic.
package service

import (
	"context"
	"io"
	"strings"

	"aperture/internal/cache"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/storage"
	"aperture/internal/validation"
)

// ReactionAdded and ReactionRemoved describe the outcome of a React call.
const (
	ReactionAdded   = "added"
	ReactionRemoved = "removed"
)

type PhotoService struct {
	photoRepo repository.PhotoRepository
	media     storage.MediaStore
}

type UploadPhotoInput struct {
	UserID      uint
	Title       string
	CameraType  string
	TakenAt     string
	File        io.Reader
	FileSize    int64
	ContentType string
}

type ListPhotosInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePhotoInput struct {
	UserID     uint
	PhotoID    uint
	Title      string
	CameraType string
	TakenAt    string

	// Optional replacement image.
	File        io.Reader
	FileSize    int64
	ContentType string
}

type DeletePhotoInput struct {
	UserID  uint
	PhotoID uint
}

func NewPhotoService(photoRepo repository.PhotoRepository, media storage.MediaStore) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		media:     media,
	}
}

const maxTitleLen = 200

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (s *PhotoService) UploadPhoto(ctx context.Context, in UploadPhotoInput) (*models.Photo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.TakenAt == "" {
		return nil, models.NewValidationError("Capture date is required")
	}
	takenAt, err := validation.ParseCaptureDate(in.TakenAt)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !allowedContentTypes[in.ContentType] {
		return nil, models.NewValidationError("Unsupported image type (jpeg, png, gif or webp expected)")
	}

	cameraType := strings.TrimSpace(in.CameraType)
	if cameraType == "" {
		cameraType = models.DefaultCameraType
	}

	url, storageID, err := s.media.Store(ctx, in.File, in.FileSize, in.ContentType)
	if err != nil {
		middleware.MediaOperations.WithLabelValues("upload", "error").Inc()
		return nil, models.NewExternalServiceError("Media host", err)
	}
	middleware.MediaOperations.WithLabelValues("upload", "success").Inc()

	photo := &models.Photo{
		Title:      title,
		ImageURL:   url,
		StorageID:  storageID,
		CameraType: cameraType,
		TakenAt:    takenAt,
		UserID:     in.UserID,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// The record never made it in; release the uploaded file.
		if delErr := s.media.Delete(ctx, storageID); delErr != nil {
			middleware.Logger.Warn("failed to release orphaned media object",
				"storage_id", storageID, "error", delErr)
		}
		return nil, err
	}

	return s.photoRepo.GetByID(ctx, photo.ID, in.UserID)
}

func (s *PhotoService) ListPhotos(ctx context.Context, in ListPhotosInput) ([]*models.Photo, error) {
	var photos []*models.Photo
	var err error

	if in.CurrentUserID == 0 && in.Offset == 0 && in.Limit <= 20 {
		key := cache.PhotoListKey()
		err = cache.Aside(ctx, key, &photos, cache.PhotoListTTL, func() error {
			var fetchErr error
			photos, fetchErr = s.photoRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
	} else {
		photos, err = s.photoRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
	}
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (s *PhotoService) GetUserPhotos(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error) {
	return s.photoRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// GetPhoto returns the photo with its reaction counts and full voter sets.
func (s *PhotoService) GetPhoto(ctx context.Context, id uint, currentUserID uint) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	likedBy, dislikedBy, err := s.photoRepo.GetVoters(ctx, id)
	if err != nil {
		return nil, err
	}
	photo.LikedBy = likedBy
	photo.DislikedBy = dislikedBy
	return photo, nil
}

func (s *PhotoService) UpdatePhoto(ctx context.Context, in UpdatePhotoInput) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, in.PhotoID, in.UserID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own photos")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		photo.Title = title
	}
	if in.CameraType != "" {
		photo.CameraType = in.CameraType
	}
	if in.TakenAt != "" {
		takenAt, err := validation.ParseCaptureDate(in.TakenAt)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		photo.TakenAt = takenAt
	}

	oldStorageID := ""
	if in.File != nil {
		if !allowedContentTypes[in.ContentType] {
			return nil, models.NewValidationError("Unsupported image type (jpeg, png, gif or webp expected)")
		}
		url, storageID, err := s.media.Store(ctx, in.File, in.FileSize, in.ContentType)
		if err != nil {
			middleware.MediaOperations.WithLabelValues("upload", "error").Inc()
			return nil, models.NewExternalServiceError("Media host", err)
		}
		middleware.MediaOperations.WithLabelValues("upload", "success").Inc()
		oldStorageID = photo.StorageID
		photo.ImageURL = url
		photo.StorageID = storageID
	}

	if err := s.photoRepo.Update(ctx, photo); err != nil {
		return nil, err
	}

	// The replaced object is released only once the record points at the
	// new one; a failure here just leaks a file on the media host.
	if oldStorageID != "" {
		if err := s.media.Delete(ctx, oldStorageID); err != nil {
			middleware.Logger.Warn("failed to release replaced media object",
				"storage_id", oldStorageID, "error", err)
		}
	}

	return s.photoRepo.GetByID(ctx, in.PhotoID, in.UserID)
}

// DeletePhoto removes the photo, its reactions and its comments. The media
// file is released first; if the media host refuses, the record is kept so
// the operation can be retried.
func (s *PhotoService) DeletePhoto(ctx context.Context, in DeletePhotoInput) error {
	photo, err := s.photoRepo.GetByID(ctx, in.PhotoID, in.UserID)
	if err != nil {
		return err
	}
	if photo.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own photos")
	}

	if err := s.media.Delete(ctx, photo.StorageID); err != nil {
		middleware.MediaOperations.WithLabelValues("delete", "error").Inc()
		return models.NewExternalServiceError("Media host", err)
	}
	middleware.MediaOperations.WithLabelValues("delete", "success").Inc()

	return s.photoRepo.Delete(ctx, in.PhotoID)
}

// React toggles the user's reaction on a photo. Reacting with the stance
// already held removes it; any other stance replaces whatever was there.
// Returns the refreshed photo and whether the reaction was added or removed.
func (s *PhotoService) React(ctx context.Context, userID, photoID uint, kind models.ReactionKind) (*models.Photo, string, error) {
	if !kind.Valid() {
		return nil, "", models.NewValidationError("Reaction must be 'like' or 'dislike'")
	}
	if _, err := s.photoRepo.GetByID(ctx, photoID, 0); err != nil {
		return nil, "", err
	}

	existing, err := s.photoRepo.GetReaction(ctx, userID, photoID)
	if err != nil {
		return nil, "", err
	}

	action := ReactionAdded
	if existing != nil && existing.Kind == kind {
		// Whether this call deleted the row or a concurrent toggle beat it
		// to the punch, the stance is gone afterwards.
		if _, err := s.photoRepo.RemoveReaction(ctx, userID, photoID, kind); err != nil {
			return nil, "", err
		}
		action = ReactionRemoved
	} else {
		// Upsert replaces an opposite reaction in the same statement, so
		// the user never holds both stances at once.
		if err := s.photoRepo.SetReaction(ctx, &models.Reaction{
			PhotoID: photoID,
			UserID:  userID,
			Kind:    kind,
		}); err != nil {
			return nil, "", err
		}
	}

	photo, err := s.GetPhoto(ctx, photoID, userID)
	if err != nil {
		return nil, "", err
	}
	return photo, action, nil
}
