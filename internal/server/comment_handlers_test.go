package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aperture/internal/config"
	"aperture/internal/models"
	"aperture/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPhoto(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCommentServer(commentRepo *MockCommentRepository, photoRepo *MockPhotoRepository) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{
		config:         &config.Config{JWTSecret: "test_secret"},
		commentRepo:    commentRepo,
		photoRepo:      photoRepo,
		commentService: service.NewCommentService(commentRepo, photoRepo),
	}
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	return app, s
}

func TestCreateComment(t *testing.T) {
	t.Run("Missing Photo ID", func(t *testing.T) {
		app, s := newCommentServer(new(MockCommentRepository), new(MockPhotoRepository))
		app.Post("/comments", s.CreateComment)

		body, _ := json.Marshal(map[string]any{"content": "Nice shot"})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Photo Missing", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		mockPhotos := new(MockPhotoRepository)
		app, s := newCommentServer(mockComments, mockPhotos)
		app.Post("/comments", s.CreateComment)

		mockPhotos.On("GetByID", mock.Anything, uint(99), uint(0)).
			Return(nil, models.NewNotFoundError("Photo", uint(99)))

		body, _ := json.Marshal(map[string]any{"photo_id": 99, "content": "Nice shot"})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Empty Content", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		mockPhotos := new(MockPhotoRepository)
		app, s := newCommentServer(mockComments, mockPhotos)
		app.Post("/comments", s.CreateComment)

		mockPhotos.On("GetByID", mock.Anything, uint(5), uint(0)).
			Return(&models.Photo{ID: 5}, nil)

		body, _ := json.Marshal(map[string]any{"photo_id": 5, "content": "   "})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Content Too Long", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		mockPhotos := new(MockPhotoRepository)
		app, s := newCommentServer(mockComments, mockPhotos)
		app.Post("/comments", s.CreateComment)

		mockPhotos.On("GetByID", mock.Anything, uint(5), uint(0)).
			Return(&models.Photo{ID: 5}, nil)

		body, _ := json.Marshal(map[string]any{
			"photo_id": 5,
			"content":  strings.Repeat("x", models.MaxCommentLength+1),
		})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Parent On Another Photo", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		mockPhotos := new(MockPhotoRepository)
		app, s := newCommentServer(mockComments, mockPhotos)
		app.Post("/comments", s.CreateComment)

		mockPhotos.On("GetByID", mock.Anything, uint(5), uint(0)).
			Return(&models.Photo{ID: 5}, nil)
		mockComments.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Comment{ID: 3, PhotoID: 8}, nil)

		body, _ := json.Marshal(map[string]any{
			"photo_id":  5,
			"content":   "Replying",
			"parent_id": 3,
		})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockComments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Reply Success", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		mockPhotos := new(MockPhotoRepository)
		app, s := newCommentServer(mockComments, mockPhotos)
		app.Post("/comments", s.CreateComment)

		parentID := uint(3)
		mockPhotos.On("GetByID", mock.Anything, uint(5), uint(0)).
			Return(&models.Photo{ID: 5}, nil)
		mockComments.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Comment{ID: 3, PhotoID: 5}, nil)
		mockComments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 10
		}).Return(nil)
		mockComments.On("GetByID", mock.Anything, uint(10)).
			Return(&models.Comment{ID: 10, PhotoID: 5, UserID: 1, ParentID: &parentID, Content: "Replying"}, nil)

		body, _ := json.Marshal(map[string]any{
			"photo_id":  5,
			"content":   "Replying",
			"parent_id": 3,
		})
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
		require.NotNil(t, comment.ParentID)
		assert.Equal(t, uint(3), *comment.ParentID)
	})
}

func TestGetComments(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPhotos := new(MockPhotoRepository)
	app, s := newCommentServer(mockComments, mockPhotos)
	app.Get("/comments/:photoId", s.GetComments)

	parentID := uint(4)
	mockPhotos.On("GetByID", mock.Anything, uint(5), uint(0)).
		Return(&models.Photo{ID: 5}, nil)
	mockComments.On("ListByPhoto", mock.Anything, uint(5)).Return([]*models.Comment{
		{ID: 9, PhotoID: 5, ParentID: &parentID, Content: "Reply"},
		{ID: 4, PhotoID: 5, Content: "Original"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/comments/5", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	require.Len(t, comments, 2)
	assert.Equal(t, uint(9), comments[0].ID)
}

func TestUpdateCommentHandler(t *testing.T) {
	t.Run("Not Author", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Put("/comments/:id", s.UpdateComment)

		mockComments.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Comment{ID: 7, UserID: 2, Content: "Theirs"}, nil)

		body, _ := json.Marshal(map[string]string{"content": "Hijacked"})
		req := httptest.NewRequest(http.MethodPut, "/comments/7", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Success", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Put("/comments/:id", s.UpdateComment)

		mockComments.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Comment{ID: 7, UserID: 1, Content: "Before"}, nil)
		mockComments.On("Update", mock.Anything, mock.MatchedBy(func(cm *models.Comment) bool {
			return cm.Content == "After"
		})).Return(nil)

		body, _ := json.Marshal(map[string]string{"content": "After"})
		req := httptest.NewRequest(http.MethodPut, "/comments/7", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockComments.AssertExpectations(t)
	})
}

func TestDeleteCommentHandler(t *testing.T) {
	t.Run("Missing Comment", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Delete("/comments/:id", s.DeleteComment)

		mockComments.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Comment", uint(99)))

		req := httptest.NewRequest(http.MethodDelete, "/comments/99", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Lookup Failure Is A 500", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Delete("/comments/:id", s.DeleteComment)

		mockComments.On("GetByID", mock.Anything, uint(7)).
			Return(nil, models.NewInternalError(assert.AnError))

		req := httptest.NewRequest(http.MethodDelete, "/comments/7", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("Not Author", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Delete("/comments/:id", s.DeleteComment)

		mockComments.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Comment{ID: 7, UserID: 2}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/comments/7", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Success", func(t *testing.T) {
		mockComments := new(MockCommentRepository)
		app, s := newCommentServer(mockComments, new(MockPhotoRepository))
		app.Delete("/comments/:id", s.DeleteComment)

		mockComments.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Comment{ID: 7, UserID: 1}, nil)
		mockComments.On("Delete", mock.Anything, uint(7)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/comments/7", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockComments.AssertExpectations(t)
	})
}
