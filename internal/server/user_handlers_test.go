package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aperture/internal/config"
	"aperture/internal/models"
	"aperture/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserServer(repo *MockUserRepository, media *MockMediaStore) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{
		config:      &config.Config{JWTSecret: "test_secret"},
		userRepo:    repo,
		userService: service.NewUserService(repo, media, new(MockMailer), "https://aperture.example.com/reset"),
	}
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	return app, s
}

func TestGetMyProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app, s := newUserServer(mockRepo, new(MockMediaStore))
	app.Get("/me", s.GetMyProfile)

	mockRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "testuser", Email: "test@example.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "testuser", user.Username)
}

func TestUpdateMyEmail(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app, s := newUserServer(mockRepo, new(MockMediaStore))
		app.Put("/update-email", s.UpdateMyEmail)

		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Password: string(hashed)}, nil)

		body, _ := json.Marshal(map[string]string{
			"email":    "new@example.com",
			"password": "WrongPassword1!",
		})
		req := httptest.NewRequest(http.MethodPut, "/update-email", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app, s := newUserServer(mockRepo, new(MockMediaStore))
		app.Put("/update-email", s.UpdateMyEmail)

		body, _ := json.Marshal(map[string]string{
			"email":    "nope",
			"password": "Password123!",
		})
		req := httptest.NewRequest(http.MethodPut, "/update-email", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app, s := newUserServer(mockRepo, new(MockMediaStore))
		app.Put("/update-email", s.UpdateMyEmail)

		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Email: "old@example.com", Password: string(hashed)}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com"
		})).Return(nil)

		body, _ := json.Marshal(map[string]string{
			"email":    "new@example.com",
			"password": "Password123!",
		})
		req := httptest.NewRequest(http.MethodPut, "/update-email", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteMyAccount(t *testing.T) {
	t.Run("Releases Media", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockMedia := new(MockMediaStore)
		app, s := newUserServer(mockRepo, mockMedia)
		app.Delete("/delete-account", s.DeleteMyAccount)

		mockRepo.On("DeleteCascade", mock.Anything, uint(1)).
			Return([]string{"photos/a.jpg", "photos/b.jpg"}, nil)
		mockMedia.On("Delete", mock.Anything, "photos/a.jpg").Return(nil)
		mockMedia.On("Delete", mock.Anything, "photos/b.jpg").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/delete-account", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockMedia.AssertExpectations(t)
	})

	t.Run("Media Failure Does Not Block", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockMedia := new(MockMediaStore)
		app, s := newUserServer(mockRepo, mockMedia)
		app.Delete("/delete-account", s.DeleteMyAccount)

		mockRepo.On("DeleteCascade", mock.Anything, uint(1)).
			Return([]string{"photos/a.jpg"}, nil)
		mockMedia.On("Delete", mock.Anything, "photos/a.jpg").Return(assert.AnError)

		req := httptest.NewRequest(http.MethodDelete, "/delete-account", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Cascade Failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app, s := newUserServer(mockRepo, new(MockMediaStore))
		app.Delete("/delete-account", s.DeleteMyAccount)

		mockRepo.On("DeleteCascade", mock.Anything, uint(1)).
			Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodDelete, "/delete-account", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
