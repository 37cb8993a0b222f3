package repositories

import (
	"context"
	"fmt"

	"mediahub/internal/models"

	"gorm.io/gorm"
)

// GORMSearchHistoryRepository is a GORM implementation of SearchHistoryRepository.
type GORMSearchHistoryRepository struct {
	db *gorm.DB
}

// NewGORMSearchHistoryRepository creates a new instance of GORMSearchHistoryRepository.
func NewGORMSearchHistoryRepository(db *gorm.DB) *GORMSearchHistoryRepository {
	return &GORMSearchHistoryRepository{
		db: db,
	}
}

// Create inserts a new ledger entry.
func (r *GORMSearchHistoryRepository) Create(ctx context.Context, entry *models.SearchHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create search history entry: %w", err)
	}
	return nil
}

// CountByUser counts the entries owned by userID.
func (r *GORMSearchHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SearchHistory{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count search history for user %s: %w", userID, err)
	}
	return count, nil
}

// OldestByUser returns the user's oldest entry.
func (r *GORMSearchHistoryRepository) OldestByUser(ctx context.Context, userID string) (*models.SearchHistory, error) {
	var entry models.SearchHistory
	err := r.byUser(ctx, userID).Take(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get oldest search for user %s: %w", userID, translate(err))
	}
	return &entry, nil
}

// ListByUser returns the user's entries oldest first.
func (r *GORMSearchHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.SearchHistory, error) {
	entries := []models.SearchHistory{}
	if err := r.byUser(ctx, userID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list search history for user %s: %w", userID, err)
	}
	return entries, nil
}

// Delete removes an entry by ID regardless of owner.
func (r *GORMSearchHistoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SearchHistory{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete search %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("search %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteForUser removes an entry only when it is owned by userID.
func (r *GORMSearchHistoryRepository) DeleteForUser(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SearchHistory{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete search %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("search %d not found for user %s: %w", id, userID, ErrNotFound)
	}
	return nil
}

func (r *GORMSearchHistoryRepository) byUser(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC")
}
