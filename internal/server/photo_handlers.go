// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"strings"

	"aperture/internal/models"
	"aperture/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadPhoto handles POST /api/photos (multipart)
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer file.Close()

	photo, err := s.photoService.UploadPhoto(c.UserContext(), service.UploadPhotoInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		CameraType:  c.FormValue("camera_type"),
		TakenAt:     c.FormValue("taken_at"),
		File:        file,
		FileSize:    fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// GetPhotos handles GET /api/photos
func (s *Server) GetPhotos(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	photos, err := s.photoService.ListPhotos(c.UserContext(), service.ListPhotosInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(photos)
}

// GetPhoto handles GET /api/photos/:id
func (s *Server) GetPhoto(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	photo, err := s.photoService.GetPhoto(c.UserContext(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(photo)
}

// UpdatePhoto handles PUT /api/photos/:id. Accepts either a JSON body or a
// multipart form carrying a replacement image.
func (s *Server) UpdatePhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in := service.UpdatePhotoInput{
		UserID:  userID,
		PhotoID: photoID,
	}

	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		in.Title = c.FormValue("title")
		in.CameraType = c.FormValue("camera_type")
		in.TakenAt = c.FormValue("taken_at")

		if fileHeader, fhErr := c.FormFile("image"); fhErr == nil {
			file, openErr := fileHeader.Open()
			if openErr != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unable to read uploaded file"))
			}
			defer file.Close()
			in.File = file
			in.FileSize = fileHeader.Size
			in.ContentType = fileHeader.Header.Get("Content-Type")
		}
	} else {
		var req struct {
			Title      string `json:"title"`
			CameraType string `json:"camera_type"`
			TakenAt    string `json:"taken_at"`
		}
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Title = req.Title
		in.CameraType = req.CameraType
		in.TakenAt = req.TakenAt
	}

	photo, err := s.photoService.UpdatePhoto(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(photo)
}

// DeletePhoto handles DELETE /api/photos/:id
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.photoService.DeletePhoto(c.UserContext(), service.DeletePhotoInput{
		UserID:  userID,
		PhotoID: photoID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// LikePhoto handles POST /api/photos/:id/like
func (s *Server) LikePhoto(c *fiber.Ctx) error {
	return s.react(c, models.ReactionLike)
}

// DislikePhoto handles POST /api/photos/:id/dislike
func (s *Server) DislikePhoto(c *fiber.Ctx) error {
	return s.react(c, models.ReactionDislike)
}

func (s *Server) react(c *fiber.Ctx, kind models.ReactionKind) error {
	userID := c.Locals("userID").(uint)
	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	photo, action, err := s.photoService.React(c.UserContext(), userID, photoID, kind)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"action": action,
		"photo":  photo,
	})
}
