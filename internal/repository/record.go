package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fitlog/fitlog/internal/model"
)

// ErrRecordNotFound is returned when no record matches both id and owner.
// A record owned by someone else is reported the same way.
var ErrRecordNotFound = errors.New("record not found")

const recordColumns = `id, owner_id, name, img_data, duration, created_time`

// CreateRecord inserts a new record into the database.
func (r *Repository) CreateRecord(ctx context.Context, rec *model.Record) error {
	query := `
		INSERT INTO records (id, owner_id, name, img_data, duration, created_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Name,
		rec.ImageData,
		rec.Duration,
		rec.CreatedTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

// ListRecordsByOwner returns every record owned by ownerID, newest first.
// Ties on created_time are broken by id so the order is stable.
func (r *Repository) ListRecordsByOwner(ctx context.Context, ownerID string) ([]*model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE owner_id = $1
		ORDER BY created_time DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]*model.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// GetRecordOwned retrieves a record only if it is owned by ownerID.
func (r *Repository) GetRecordOwned(ctx context.Context, id, ownerID string) (*model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = $1 AND owner_id = $2
	`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// UpdateRecordOwned applies patch to the record identified by id and ownerID
// in a single statement. It reports whether a matching record existed.
// An empty patch changes nothing and only checks for the record.
func (r *Repository) UpdateRecordOwned(ctx context.Context, id, ownerID string, patch model.RecordPatch) (bool, error) {
	if patch.IsEmpty() {
		return r.recordOwnedExists(ctx, id, ownerID)
	}

	query := `
		UPDATE records
		SET name     = COALESCE($3, name),
		    img_data = COALESCE($4, img_data),
		    duration = COALESCE($5, duration)
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID, patch.Name, patch.ImageData, patch.Duration)
	if err != nil {
		return false, fmt.Errorf("failed to update record: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteRecordOwned removes the record identified by id and ownerID.
// It reports whether a record was removed.
func (r *Repository) DeleteRecordOwned(ctx context.Context, id, ownerID string) (bool, error) {
	query := `DELETE FROM records WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *Repository) recordOwnedExists(ctx context.Context, id, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM records WHERE id = $1 AND owner_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}

	return exists, nil
}

// scanRecord scans a single row into a Record model.
func scanRecord(row pgx.Row) (*model.Record, error) {
	var rec model.Record
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Name,
		&rec.ImageData,
		&rec.Duration,
		&rec.CreatedTime,
	)
	return &rec, err
}
