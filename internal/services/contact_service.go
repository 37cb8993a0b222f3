package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediahub/internal/models"
	"mediahub/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ContactUpdate carries the fields of a partial contact update. Nil fields are left unchanged.
type ContactUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// ContactService handles business logic related to contacts.
type ContactService struct {
	repo     repositories.ContactRepository
	validate *validator.Validate
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListContacts retrieves all contacts.
func (s *ContactService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.GetAll(ctx)
}

// CreateContact validates and stores a new contact.
func (s *ContactService) CreateContact(ctx context.Context, contact *models.Contact) error {
	if err := s.check(contact); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: email %s is already used by another contact", ErrValidation, contact.Email)
		}
		return err
	}
	return nil
}

// UpdateContact applies a partial update and re-validates the result.
func (s *ContactService) UpdateContact(ctx context.Context, id uint, update ContactUpdate) (*models.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if update.FirstName != nil {
		contact.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		contact.LastName = *update.LastName
	}
	if update.Email != nil {
		contact.Email = *update.Email
	}
	if err := s.check(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, fmt.Errorf("%w: email %s is already used by another contact", ErrValidation, contact.Email)
		}
		return nil, err
	}
	return contact, nil
}

// DeleteContact deletes a contact by its ID.
func (s *ContactService) DeleteContact(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("contact %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *ContactService) check(contact *models.Contact) error {
	contact.FirstName = strings.TrimSpace(contact.FirstName)
	contact.LastName = strings.TrimSpace(contact.LastName)
	contact.Email = strings.TrimSpace(contact.Email)

	if err := s.validate.Struct(contact); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
