package repositories

import (
	"context"

	"mediahub/internal/models"
)

// SearchHistoryRepository defines per-user access to the search ledger.
// Every method commits on its own; callers compose them into the eviction policy.
type SearchHistoryRepository interface {
	Create(ctx context.Context, entry *models.SearchHistory) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	// OldestByUser returns the entry with the smallest timestamp, lowest ID on ties.
	OldestByUser(ctx context.Context, userID string) (*models.SearchHistory, error)
	// ListByUser returns entries in creation order.
	ListByUser(ctx context.Context, userID string) ([]models.SearchHistory, error)
	Delete(ctx context.Context, id uint) error
	// DeleteForUser removes the entry only when it belongs to userID.
	DeleteForUser(ctx context.Context, userID string, id uint) error
}
