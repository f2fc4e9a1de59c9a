package records

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/models"
)

func TestMemoryStoreInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	names := []string{"first", "second", "third"}
	for _, n := range names {
		store.Add(models.Person{Name: n})
	}

	persons, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(persons) != 3 {
		t.Fatalf("len = %d, want 3", len(persons))
	}
	for i, n := range names {
		if persons[i].Name != n {
			t.Errorf("persons[%d].Name = %q, want %q", i, persons[i].Name, n)
		}
	}
}

func TestMemoryStoreListMissingFilters(t *testing.T) {
	store := NewMemoryStore()
	store.Add(models.Person{Name: "still missing"})
	found := store.Add(models.Person{Name: "already found"})

	if err := store.RequestStatusChange(context.Background(), found.ID, models.StatusFound); err != nil {
		t.Fatalf("RequestStatusChange() error = %v", err)
	}

	missing, err := store.ListMissing(context.Background())
	if err != nil {
		t.Fatalf("ListMissing() error = %v", err)
	}
	if len(missing) != 1 || missing[0].Name != "still missing" {
		t.Errorf("ListMissing() = %v, want only the missing record", missing)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreStatusChange(t *testing.T) {
	store := NewMemoryStore()
	p := store.Add(models.Person{Name: "someone"})

	if err := store.RequestStatusChange(context.Background(), p.ID, models.StatusFound); err != nil {
		t.Fatalf("RequestStatusChange() error = %v", err)
	}
	got, err := store.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.StatusFound {
		t.Errorf("status = %s, want found", got.Status)
	}

	if err := store.RequestStatusChange(context.Background(), p.ID, "vanished"); err == nil {
		t.Error("expected an error for an invalid status")
	}
	if err := store.RequestStatusChange(context.Background(), uuid.New(), models.StatusFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}
