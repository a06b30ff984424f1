package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailista/contact-manager/api/internal/entity"
)

// Sentinel errors for opt-out operations.
var (
	ErrOptOutNotFound  = errors.New("opt-out entry not found")
	ErrOptOutDuplicate = errors.New("opt-out entry already exists")
)

// snapshotPageSize bounds each page when loading the full suppression list.
const snapshotPageSize = 1000

// OptOutRepository stores the per-user suppression list.
type OptOutRepository interface {
	ListAll(ctx context.Context, userID uuid.UUID) ([]entity.OptOutEntry, error)
	Sample(ctx context.Context, userID uuid.UUID, limit int) ([]entity.OptOutEntry, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Add(ctx context.Context, userID uuid.UUID, value, kind string) (*entity.OptOutEntry, error)
	BulkAdd(ctx context.Context, userID uuid.UUID, entries []entity.OptOutEntry) (int, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

// PGXOptOutRepository implements OptOutRepository with pgx.
type PGXOptOutRepository struct {
	pool pgxPool
}

// NewPGXOptOutRepository instantiates an opt-out repository.
func NewPGXOptOutRepository(pool *pgxpool.Pool) *PGXOptOutRepository {
	return &PGXOptOutRepository{pool: pool}
}

const optOutColumns = `id, user_id, value, kind, created_at`

// ListAll loads the complete suppression list in fixed-size pages so one
// oversized list cannot hold a single huge result set in flight.
func (r *PGXOptOutRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]entity.OptOutEntry, error) {
	var entries []entity.OptOutEntry
	for offset := 0; ; offset += snapshotPageSize {
		page, err := r.page(ctx, userID, offset, snapshotPageSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		if len(page) < snapshotPageSize {
			return entries, nil
		}
	}
}

// Sample returns the newest entries for display.
func (r *PGXOptOutRepository) Sample(ctx context.Context, userID uuid.UUID, limit int) ([]entity.OptOutEntry, error) {
	return r.page(ctx, userID, 0, limit)
}

func (r *PGXOptOutRepository) page(ctx context.Context, userID uuid.UUID, offset, limit int) ([]entity.OptOutEntry, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM opt_outs WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, optOutColumns,
	), userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query opt-outs: %w", err)
	}
	defer rows.Close()

	var entries []entity.OptOutEntry
	for rows.Next() {
		var entry entity.OptOutEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Value, &entry.Kind, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan opt-out row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opt-outs: %w", err)
	}
	return entries, nil
}

// Count returns the size of the suppression list.
func (r *PGXOptOutRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM opt_outs WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count opt-outs: %w", err)
	}
	return count, nil
}

// Add inserts a single entry. A repeated value maps to ErrOptOutDuplicate.
func (r *PGXOptOutRepository) Add(ctx context.Context, userID uuid.UUID, value, kind string) (*entity.OptOutEntry, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO opt_outs (user_id, value, kind)
        VALUES ($1, $2, $3)
        RETURNING %s
    `, optOutColumns), userID, value, kind)

	var entry entity.OptOutEntry
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Value, &entry.Kind, &entry.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", ErrOptOutDuplicate, value)
		}
		return nil, fmt.Errorf("insert opt-out: %w", err)
	}

	return &entry, nil
}

// BulkAdd inserts many entries inside one transaction, skipping values the
// list already holds. It reports how many rows actually landed.
func (r *PGXOptOutRepository) BulkAdd(ctx context.Context, userID uuid.UUID, entries []entity.OptOutEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("start bulk opt-out tx: %w", err)
	}
	defer tx.Rollback(ctx)

	added := 0
	for _, entry := range entries {
		tag, err := tx.Exec(ctx, `
            INSERT INTO opt_outs (user_id, value, kind)
            VALUES ($1, $2, $3)
            ON CONFLICT (user_id, value) DO NOTHING
        `, userID, entry.Value, entry.Kind)
		if err != nil {
			return 0, fmt.Errorf("insert opt-out %q: %w", entry.Value, err)
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit bulk opt-out tx: %w", err)
	}

	return added, nil
}

// Remove deletes one entry by id.
func (r *PGXOptOutRepository) Remove(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM opt_outs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete opt-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOptOutNotFound
	}
	return nil
}
