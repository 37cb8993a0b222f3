package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mediahub/internal/models"
	"mediahub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenDuration is the validity of a session token.
const DefaultTokenDuration = 7 * 24 * time.Hour

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService. A non-positive tokenDuration
// falls back to DefaultTokenDuration.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenDuration,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := s.ensureAvailable(ctx, user); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("user %q: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, user *models.User) error {
	_, err := s.userRepo.GetByUsername(ctx, user.Username)
	switch {
	case err == nil:
		return fmt.Errorf("username '%s' %w", user.Username, ErrDuplicate)
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to check username: %w", err)
	}

	_, err = s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return fmt.Errorf("email '%s' %w", user.Email, ErrDuplicate)
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// VerifyPassword reports whether plaintext matches the user's stored hash.
func (s *AuthService) VerifyPassword(user *models.User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plaintext)) == nil
}

// LoginUser authenticates a user and returns a signed session token.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error looking up user %s: %v", username, err)
		}
		return "", nil, ErrInvalidCredentials
	}

	if !s.VerifyPassword(user, password) {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.tokenDurat).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if _, ok := claims["user_id"].(string); !ok {
		return nil, fmt.Errorf("invalid token: missing user_id claim")
	}
	return claims, nil
}

// UserByID returns the account a token subject refers to.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return user, nil
}
