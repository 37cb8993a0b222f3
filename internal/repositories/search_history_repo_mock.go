package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mediahub/internal/models"
)

// MockSearchHistoryRepository is an in-memory implementation of SearchHistoryRepository.
type MockSearchHistoryRepository struct {
	entries map[uint]models.SearchHistory
	nextID  uint
	mu      sync.RWMutex
}

// NewMockSearchHistoryRepository creates a new instance of MockSearchHistoryRepository.
func NewMockSearchHistoryRepository() *MockSearchHistoryRepository {
	return &MockSearchHistoryRepository{
		entries: make(map[uint]models.SearchHistory),
	}
}

// Create adds a new entry and assigns it the next ID.
func (r *MockSearchHistoryRepository) Create(ctx context.Context, entry *models.SearchHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.entries[entry.ID] = *entry
	return nil
}

// CountByUser counts the entries owned by userID.
func (r *MockSearchHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

// OldestByUser returns the user's oldest entry.
func (r *MockSearchHistoryRepository) OldestByUser(ctx context.Context, userID string) (*models.SearchHistory, error) {
	entries, _ := r.ListByUser(ctx, userID)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no searches for user %s: %w", userID, ErrNotFound)
	}
	return &entries[0], nil
}

// ListByUser returns the user's entries oldest first.
func (r *MockSearchHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.SearchHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []models.SearchHistory{}
	for _, e := range r.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Delete removes an entry by ID regardless of owner.
func (r *MockSearchHistoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("search %d not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.entries, id)
	return nil
}

// DeleteForUser removes an entry only when it is owned by userID.
func (r *MockSearchHistoryRepository) DeleteForUser(ctx context.Context, userID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return fmt.Errorf("search %d not found for user %s: %w", id, userID, ErrNotFound)
	}
	delete(r.entries, id)
	return nil
}
