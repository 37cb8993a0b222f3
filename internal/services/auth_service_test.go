package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"mediahub/internal/models"
	"mediahub/internal/repositories"
	"mediahub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

var errUserNotFound = fmt.Errorf("user: %w", repositories.ErrNotFound)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	// Successful registration stores a bcrypt hash, never the plaintext.
	user := &models.User{Username: "testuser", Email: "test@example.com", Password: "password123"}
	mockRepo.On("GetByUsername", "testuser").Return(nil, errUserNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, errUserNotFound).Once()
	mockRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, &models.User{Username: "testuser", Email: "new@example.com", Password: "x"})
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.Contains(t, err.Error(), "username 'testuser'")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", "other").Return(nil, errUserNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, &models.User{Username: "other", Email: "test@example.com", Password: "x"})
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.Contains(t, err.Error(), "email 'test@example.com'")
	mockRepo.AssertExpectations(t)

	// Unique index race surfaces as a duplicate too
	mockRepo.On("GetByUsername", "racer").Return(nil, errUserNotFound).Once()
	mockRepo.On("GetByEmail", "racer@example.com").Return(nil, errUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicate)).Once()
	err = authService.RegisterUser(ctx, &models.User{Username: "racer", Email: "racer@example.com", Password: "x"})
	assert.ErrorIs(t, err, services.ErrDuplicate)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, loggedIn)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.NotContains(t, claims, "username")

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	token, _, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Empty(t, token)
	mockRepo.AssertExpectations(t)

	// Unknown user gets the same error
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, errUserNotFound).Once()
	_, _, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyPassword(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, 0)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	user := &models.User{Password: string(hashedPassword)}

	assert.True(t, authService.VerifyPassword(user, "s3cret"))
	assert.False(t, authService.VerifyPassword(user, "S3cret"))
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return s
	}

	// Valid token
	claims, err := authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// Garbage
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorContains(t, err, "invalid token")

	// Wrong secret
	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "another-secret"))
	assert.ErrorContains(t, err, "invalid token")

	// Expired
	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorContains(t, err, "invalid token")

	// Missing identity
	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorContains(t, err, "missing user_id")
}

func TestAuthService_UserByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	known := &models.User{ID: "user-1", Username: "alice"}
	mockRepo.On("GetByID", "user-1").Return(known, nil).Once()
	mockRepo.On("GetByID", "gone").Return(nil, errUserNotFound).Once()
	mockRepo.On("GetByID", "broken").Return(nil, errors.New("connection reset")).Once()

	user, err := authService.UserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = authService.UserByID(ctx, "gone")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = authService.UserByID(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrNotFound)

	mockRepo.AssertExpectations(t)
}
