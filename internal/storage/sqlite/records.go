package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

// AddRecord persists a new record to the database.
// The amount is stored as a canonical decimal string so accumulation
// over a month of cent-level values stays exact.
func (s *SQLiteStore) AddRecord(ctx context.Context, rec *models.Record) error {
	// Generate identity if not set
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format(models.DateLayout)
	}

	var description interface{} = nil
	if rec.Description != "" {
		description = rec.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, date, who_did, for_whom, description, amount, group_id, creator_external_id, creator_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date, rec.WhoDid, rec.ForWhom, description,
		rec.Amount.String(), rec.GroupID, rec.CreatorExternalID, rec.CreatorName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// ListRecordsByMonth returns the group's records for one calendar month,
// ordered by date ascending, insertion order breaking ties.
func (s *SQLiteStore) ListRecordsByMonth(ctx context.Context, groupID, yearMonth string) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, who_did, for_whom, description, amount, group_id, creator_external_id, creator_name
		 FROM records
		 WHERE group_id = ? AND strftime('%Y-%m', date) = ?
		 ORDER BY date ASC, rowid ASC`,
		groupID, yearMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// GetRecord retrieves a record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, recordID string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, who_did, for_whom, description, amount, group_id, creator_external_id, creator_name
		 FROM records WHERE id = ?`,
		recordID,
	)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrRecordNotFound, recordID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecord overwrites only the supplied fields. The existence check
// and the field updates share one transaction, so a concurrent delete
// surfaces as ErrRecordNotFound rather than a silent lost update.
func (s *SQLiteStore) UpdateRecord(ctx context.Context, recordID string, upd models.RecordUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM records WHERE id = ?", recordID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", models.ErrRecordNotFound, recordID)
	}
	if err != nil {
		return fmt.Errorf("failed to check record: %w", err)
	}

	if upd.Amount != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE records SET amount = ? WHERE id = ?", upd.Amount.String(), recordID); err != nil {
			return fmt.Errorf("failed to update amount: %w", err)
		}
	}
	if upd.WhoDid != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE records SET who_did = ? WHERE id = ?", *upd.WhoDid, recordID); err != nil {
			return fmt.Errorf("failed to update who_did: %w", err)
		}
	}
	if upd.ForWhom != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE records SET for_whom = ? WHERE id = ?", *upd.ForWhom, recordID); err != nil {
			return fmt.Errorf("failed to update for_whom: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteRecord removes the record permanently. Deleting a missing id is
// a no-op.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, recordID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// scanRecord reads one record row via the given scan function.
func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	rec := &models.Record{}
	var description sql.NullString
	var amount string

	err := scan(&rec.ID, &rec.Date, &rec.WhoDid, &rec.ForWhom, &description,
		&amount, &rec.GroupID, &rec.CreatorExternalID, &rec.CreatorName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Description = description.String
	rec.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	return rec, nil
}
