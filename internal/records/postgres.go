package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/lookout/internal/config"
	"github.com/your-org/lookout/internal/models"
)

// PostgresStore persists person records. Listing is insertion-ordered
// (created_at ascending) so the roster sent to the matcher is stable.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const personColumns = `id, name, last_seen_at, last_seen_date, attire, description, photo_key, status, created_at, updated_at`

func scanPerson(row pgx.Row) (*models.Person, error) {
	p := &models.Person{}
	err := row.Scan(&p.ID, &p.Name, &p.LastSeenAt, &p.LastSeenDate, &p.Attire,
		&p.Description, &p.PhotoKey, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.StatusMissing
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO persons (id, name, last_seen_at, last_seen_date, attire, description, photo_key, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`,
		p.ID, p.Name, p.LastSeenAt, p.LastSeenDate, p.Attire, p.Description, p.PhotoKey, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Person, error) {
	return s.list(ctx, `SELECT `+personColumns+` FROM persons ORDER BY created_at ASC`)
}

func (s *PostgresStore) ListMissing(ctx context.Context) ([]models.Person, error) {
	return s.list(ctx,
		`SELECT `+personColumns+` FROM persons WHERE status = 'missing' ORDER BY created_at ASC`)
}

func (s *PostgresStore) list(ctx context.Context, query string) ([]models.Person, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, *p)
	}
	return persons, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	p, err := scanPerson(s.pool.QueryRow(ctx,
		`SELECT `+personColumns+` FROM persons WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) RequestStatusChange(ctx context.Context, id uuid.UUID, status models.PersonStatus) error {
	if err := validateTransition(status); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE persons SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update person status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
