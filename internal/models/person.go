package models

import (
	"time"

	"github.com/google/uuid"
)

type PersonStatus string

const (
	StatusMissing PersonStatus = "missing"
	StatusFound   PersonStatus = "found"
	StatusSighted PersonStatus = "sighted"
)

// Valid reports whether s is one of the known statuses.
func (s PersonStatus) Valid() bool {
	switch s {
	case StatusMissing, StatusFound, StatusSighted:
		return true
	}
	return false
}

// Person is a missing-person record. Description deliberately excludes
// attire so matching does not over-weight clothing from a stale photo.
type Person struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	LastSeenAt   string       `json:"last_seen_at" db:"last_seen_at"`
	LastSeenDate string       `json:"last_seen_date" db:"last_seen_date"`
	Attire       string       `json:"attire" db:"attire"`
	Description  string       `json:"description" db:"description"`
	PhotoKey     string       `json:"photo_key" db:"photo_key"`
	Status       PersonStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
