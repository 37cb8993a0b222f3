package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediahub/internal/middleware"
	"mediahub/internal/models"
	"mediahub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepository satisfies repositories.UserRepository; the middleware never touches it.
type stubUserRepository struct{}

func (stubUserRepository) Create(context.Context, *models.User) error { return nil }
func (stubUserRepository) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}
func (stubUserRepository) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (stubUserRepository) GetByID(context.Context, string) (*models.User, error)    { return nil, nil }

func TestAuthRequired(t *testing.T) {
	const secret = "middleware-secret"
	authService := services.NewAuthService(stubUserRepository{}, secret, time.Hour)

	app := fiber.New()
	app.Get("/protected", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.UserIDKey).(string))
	})

	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-7",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.status == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-7", string(body))
			}
		})
	}
}
