package repositories

import (
	"context"
	"fmt"

	"mediahub/internal/models"

	"gorm.io/gorm"
)

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{
		db: db,
	}
}

// GetAll retrieves all contacts ordered by ID.
func (r *GORMContactRepository) GetAll(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all contacts: %w", err)
	}
	return contacts, nil
}

// GetByID retrieves a single contact by its ID.
func (r *GORMContactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).Take(&contact, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", id, translate(err))
	}
	return &contact, nil
}

// Create inserts a new contact.
func (r *GORMContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", translate(err))
	}
	return nil
}

// Update saves every column of an existing contact.
func (r *GORMContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", contact.ID).
		Updates(map[string]interface{}{
			"first_name": contact.FirstName,
			"last_name":  contact.LastName,
			"email":      contact.Email,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update contact %d: %w", contact.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("contact %d not found for update: %w", contact.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a contact by its ID.
func (r *GORMContactRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("contact %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
