package models

import "time"

// Contact is a standalone address book record. It has no relation to User.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"firstName" gorm:"type:varchar(80);not null" validate:"required,max=80"`
	LastName  string    `json:"lastName" gorm:"type:varchar(80);not null" validate:"required,max=80"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(120);not null" validate:"required,email,max=120"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
