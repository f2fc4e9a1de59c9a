package dto

import "github.com/google/uuid"

// CreatePersonRequest is bound from the multipart form that accompanies
// the reference photo upload.
type CreatePersonRequest struct {
	Name         string `form:"name" binding:"required"`
	LastSeenAt   string `form:"last_seen_at"`
	LastSeenDate string `form:"last_seen_date"`
	Attire       string `form:"attire"`
	Description  string `form:"description"`
}

type PersonResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LastSeenAt   string    `json:"last_seen_at"`
	LastSeenDate string    `json:"last_seen_date"`
	Attire       string    `json:"attire"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    string    `json:"created_at"`
}

type PersonListResponse struct {
	Persons []PersonResponse `json:"persons"`
	Total   int              `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=missing found sighted"`
}
