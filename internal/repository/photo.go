// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhotoRepository defines the interface for photo data operations.
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Photo, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Photo, error)
	Update(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id uint) error
	GetReaction(ctx context.Context, userID, photoID uint) (*models.Reaction, error)
	SetReaction(ctx context.Context, reaction *models.Reaction) error
	RemoveReaction(ctx context.Context, userID, photoID uint, kind models.ReactionKind) (bool, error)
	GetVoters(ctx context.Context, photoID uint) (likedBy []uint, dislikedBy []uint, err error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePhotoList(ctx)
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Photo, error) {
	var photo models.Photo
	key := cache.PhotoKey(id)

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &photo, cache.PhotoTTL, func() error {
			return r.applyPhotoDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&photo, id).Error
		})
	} else {
		err = r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&photo, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &photo, nil
}

func (r *photoRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

func (r *photoRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

// applyPhotoDetails adds subqueries to fetch reaction counts and the
// current user's stance in a single query. The counts are derived from the
// reaction rows themselves, so they always agree with the voter sets.
func (r *photoRepository) applyPhotoDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "photos.*, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.photo_id = photos.id AND reactions.kind = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.photo_id = photos.id AND reactions.kind = 'dislike') as dislikes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM reactions WHERE reactions.photo_id = photos.id AND reactions.user_id = ? AND reactions.kind = 'like') as liked"+
			", EXISTS(SELECT 1 FROM reactions WHERE reactions.photo_id = photos.id AND reactions.user_id = ? AND reactions.kind = 'dislike') as disliked",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as disliked")
}

func (r *photoRepository) Update(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Save(photo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePhoto(ctx, photo.ID)
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Photo{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePhoto(ctx, id)
	return nil
}

func (r *photoRepository) GetReaction(ctx context.Context, userID, photoID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND photo_id = ?", userID, photoID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *photoRepository) SetReaction(ctx context.Context, reaction *models.Reaction) error {
	// Upsert against the (photo_id, user_id) unique index so switching
	// stance is atomic; a concurrent duplicate never produces two rows.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "photo_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "created_at"}),
		}).
		Create(reaction).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePhoto(ctx, reaction.PhotoID)
	return nil
}

func (r *photoRepository) RemoveReaction(ctx context.Context, userID, photoID uint, kind models.ReactionKind) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND photo_id = ? AND kind = ?", userID, photoID, kind).
		Delete(&models.Reaction{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePhoto(ctx, photoID)
	}
	return result.RowsAffected > 0, nil
}

func (r *photoRepository) GetVoters(ctx context.Context, photoID uint) ([]uint, []uint, error) {
	var likedBy, dislikedBy []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("photo_id = ? AND kind = ?", photoID, models.ReactionLike).
		Order("user_id").
		Pluck("user_id", &likedBy).Error; err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("photo_id = ? AND kind = ?", photoID, models.ReactionDislike).
		Order("user_id").
		Pluck("user_id", &dislikedBy).Error; err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	return likedBy, dislikedBy, nil
}
