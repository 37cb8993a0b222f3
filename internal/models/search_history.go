package models

import "time"

// SearchHistory is one entry of a user's bounded search ledger.
// Entries are ordered by Timestamp, ties broken by ID.
type SearchHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"-" gorm:"type:varchar(36);not null;index:idx_search_history_user_ts,priority:1"`
	Query     string    `json:"query" gorm:"type:varchar(200);not null"`
	Timestamp time.Time `json:"timestamp" gorm:"column:created_at;not null;index:idx_search_history_user_ts,priority:2"`
}

// TableName implements the GORM tabler interface.
func (SearchHistory) TableName() string { return "search_history" }

// History event types published after a ledger mutation commits.
const (
	HistoryEventSaved   = "search.saved"
	HistoryEventEvicted = "search.evicted"
	HistoryEventDeleted = "search.deleted"
)

// HistoryEvent describes a committed change to a user's search ledger.
type HistoryEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntryID    uint      `json:"entry_id"`
	Query      string    `json:"query"`
	OccurredAt time.Time `json:"occurred_at"`
}
