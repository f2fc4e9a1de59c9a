package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/models"
)

// ErrNotFound is returned when a person record does not exist.
var ErrNotFound = errors.New("person not found")

// Store is the record-store view the scan engine depends on. The engine
// only reads the roster and requests FOUND transitions; it never sets
// MISSING or SIGHTED.
type Store interface {
	// ListMissing returns records with status missing, in insertion order.
	ListMissing(ctx context.Context) ([]models.Person, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	RequestStatusChange(ctx context.Context, id uuid.UUID, status models.PersonStatus) error
}

func validateTransition(status models.PersonStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return nil
}
