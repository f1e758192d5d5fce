package models

import "time"

// Student is a tracked competitive-programming student. Rating fields are
// derived from the reconciled contest history and overwritten on every sync.
type Student struct {
	ID                    int        `json:"id" db:"id"`
	Name                  string     `json:"name" db:"name"`
	Email                 string     `json:"email" db:"email"`
	Phone                 *string    `json:"phone,omitempty" db:"phone"`
	Handle                string     `json:"codeforces_handle" db:"handle"`
	CurrentRating         int        `json:"current_rating" db:"current_rating"`
	MaxRating             int        `json:"max_rating" db:"max_rating"`
	EmailRemindersEnabled bool       `json:"email_reminders_enabled" db:"email_reminders_enabled"`
	ReminderCount         int        `json:"reminder_count" db:"reminder_count"`
	LastSyncedAt          *time.Time `json:"last_synced_at,omitempty" db:"last_synced_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}
