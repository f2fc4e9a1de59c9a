package records

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/models"
)

// MemoryStore is an in-memory, insertion-ordered record store. Used by
// tests and anywhere a database is not wired up.
type MemoryStore struct {
	mu      sync.RWMutex
	persons []models.Person
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(p models.Person) models.Person {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.StatusMissing
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.persons = append(s.persons, p)
	return p
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Person, len(s.persons))
	copy(out, s.persons)
	return out, nil
}

func (s *MemoryStore) ListMissing(ctx context.Context) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Person
	for _, p := range s.persons {
		if p.Status == models.StatusMissing {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.persons {
		if s.persons[i].ID == id {
			p := s.persons[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RequestStatusChange(ctx context.Context, id uuid.UUID, status models.PersonStatus) error {
	if err := validateTransition(status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.persons {
		if s.persons[i].ID == id {
			s.persons[i].Status = status
			s.persons[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}
