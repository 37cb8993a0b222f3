package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"mediahub/internal/models"
	"mediahub/internal/repositories"
)

// HistoryCapacity is the maximum number of ledger entries kept per user.
const HistoryCapacity = 10

// HistoryQueryMaxLength is the longest query, in characters, a ledger entry can hold.
const HistoryQueryMaxLength = 200

// EventPublisher receives ledger events after they commit.
type EventPublisher interface {
	PublishHistoryEvent(event models.HistoryEvent) error
}

// HistoryService enforces the bounded per-user search ledger.
//
// Saving is two independently committed steps: evict the oldest entries while
// the ledger is full, then insert. A failed insert does not restore what was
// evicted. Mutations for the same user are serialized in-process so concurrent
// saves cannot both observe a full ledger and over- or under-trim it.
type HistoryService struct {
	historyRepo repositories.SearchHistoryRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
	capacity    int
	locks       *userLocks
	now         func() time.Time
}

// NewHistoryService creates a new HistoryService. publisher may be nil.
func NewHistoryService(historyRepo repositories.SearchHistoryRepository, userRepo repositories.UserRepository, publisher EventPublisher) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		capacity:    HistoryCapacity,
		locks:       newUserLocks(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SaveSearch appends query to the user's ledger, evicting the oldest entries first when it is full.
func (s *HistoryService) SaveSearch(ctx context.Context, username, query string) (*models.SearchHistory, error) {
	// Checked before eviction: a rejected insert must not cost the user an entry.
	if n := utf8.RuneCountInString(query); n == 0 || n > HistoryQueryMaxLength {
		return nil, fmt.Errorf("%w: query must be 1 to %d characters", ErrValidation, HistoryQueryMaxLength)
	}

	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(user.ID)
	defer unlock()

	evicted, err := s.evict(ctx, user.ID)
	for _, e := range evicted {
		s.publish(models.HistoryEventEvicted, e)
	}
	if err != nil {
		log.Printf("Error deleting oldest search for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrHistoryEvictionFailed, err)
	}

	entry := &models.SearchHistory{
		UserID:    user.ID,
		Query:     query,
		Timestamp: s.now(),
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		log.Printf("Error saving search for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrHistorySaveFailed, err)
	}
	s.publish(models.HistoryEventSaved, *entry)
	return entry, nil
}

// evict deletes oldest entries until there is room for one more.
// It returns the entries that were deleted before any failure.
func (s *HistoryService) evict(ctx context.Context, userID string) ([]models.SearchHistory, error) {
	count, err := s.historyRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var evicted []models.SearchHistory
	for ; count >= int64(s.capacity); count-- {
		oldest, err := s.historyRepo.OldestByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("No searches to delete for user %s", userID)
				return evicted, nil
			}
			return evicted, err
		}
		if err := s.historyRepo.Delete(ctx, oldest.ID); err != nil {
			return evicted, err
		}
		evicted = append(evicted, *oldest)
	}
	return evicted, nil
}

// ListHistory returns the user's ledger in creation order.
func (s *HistoryService) ListHistory(ctx context.Context, username string) ([]models.SearchHistory, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.ListByUser(ctx, user.ID)
}

// DeleteEntry removes one of the user's entries. A missing entry and an entry
// owned by someone else both yield ErrNotFound.
func (s *HistoryService) DeleteEntry(ctx context.Context, username string, entryID uint) error {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(user.ID)
	defer unlock()

	if err := s.historyRepo.DeleteForUser(ctx, user.ID, entryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("search %d: %w", entryID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete search %d: %w", entryID, err)
	}
	s.publish(models.HistoryEventDeleted, models.SearchHistory{ID: entryID, UserID: user.ID})
	return nil
}

func (s *HistoryService) resolveUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve user %q: %w", username, err)
	}
	return user, nil
}

func (s *HistoryService) publish(eventType string, entry models.SearchHistory) {
	if s.publisher == nil {
		return
	}
	event := models.HistoryEvent{
		Type:       eventType,
		UserID:     entry.UserID,
		EntryID:    entry.ID,
		Query:      entry.Query,
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishHistoryEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for search %d: %v", eventType, entry.ID, err)
	}
}

// userLocks hands out one mutex per user id and drops it once nobody holds it.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
