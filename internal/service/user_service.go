package service

import (
	"context"
	"time"

	"aperture/internal/mailer"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/storage"
	"aperture/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type UserService struct {
	userRepo     repository.UserRepository
	media        storage.MediaStore
	mail         mailer.Mailer
	resetURLBase string
}

type UpdateEmailInput struct {
	UserID   uint
	NewEmail string
	Password string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

func NewUserService(
	userRepo repository.UserRepository,
	media storage.MediaStore,
	mail mailer.Mailer,
	resetURLBase string,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		media:        media,
		mail:         mail,
		resetURLBase: resetURLBase,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// RequestPasswordReset issues a reset token and mails the link. An unknown
// email succeeds silently so the endpoint cannot be used to probe accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := s.resetURLBase + "?token=" + token
	if err := s.mail.SendPasswordReset(user.Email, resetURL); err != nil {
		middleware.Logger.Error("failed to send password reset mail",
			"user_id", user.ID, "error", err)
		return models.NewExternalServiceError("Mail relay", err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByResetToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewUnauthorizedError("Invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user.Password = string(hashed)
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) UpdateEmail(ctx context.Context, in UpdateEmailInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.NewEmail); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	user.Email = in.NewEmail
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything they contributed: photos,
// reactions and comments, including comments left on other users' photos.
// The database cascade is atomic; media files are released afterwards on a
// best-effort basis, a refusing media host never blocks the deletion.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	storageIDs, err := s.userRepo.DeleteCascade(ctx, userID)
	if err != nil {
		return err
	}

	for _, storageID := range storageIDs {
		if err := s.media.Delete(ctx, storageID); err != nil {
			middleware.MediaOperations.WithLabelValues("delete", "error").Inc()
			middleware.Logger.Warn("failed to release media object during account deletion",
				"user_id", userID, "storage_id", storageID, "error", err)
			continue
		}
		middleware.MediaOperations.WithLabelValues("delete", "success").Inc()
	}
	return nil
}
