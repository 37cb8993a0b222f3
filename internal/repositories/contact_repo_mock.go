package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mediahub/internal/models"
)

// MockContactRepository is an in-memory implementation of ContactRepository.
type MockContactRepository struct {
	contacts map[uint]models.Contact
	nextID   uint
	mu       sync.RWMutex
}

// NewMockContactRepository creates a new instance of MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[uint]models.Contact),
	}
}

// GetAll returns all contacts ordered by ID.
func (r *MockContactRepository) GetAll(ctx context.Context) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contactList := make([]models.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		contactList = append(contactList, c)
	}
	sort.Slice(contactList, func(i, j int) bool { return contactList[i].ID < contactList[j].ID })
	return contactList, nil
}

// GetByID returns a contact by its ID.
func (r *MockContactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return &contact, nil
}

// Create adds a new contact, rejecting duplicate emails like the unique index does.
func (r *MockContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.contacts {
		if c.Email == contact.Email {
			return fmt.Errorf("contact email %s: %w", contact.Email, ErrDuplicate)
		}
	}
	r.nextID++
	contact.ID = r.nextID
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	r.contacts[contact.ID] = *contact
	return nil
}

// Update modifies an existing contact.
func (r *MockContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[contact.ID]; !ok {
		return fmt.Errorf("contact %d not found for update: %w", contact.ID, ErrNotFound)
	}
	contact.UpdatedAt = time.Now()
	r.contacts[contact.ID] = *contact
	return nil
}

// Delete removes a contact by its ID.
func (r *MockContactRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return fmt.Errorf("contact %d not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.contacts, id)
	return nil
}
