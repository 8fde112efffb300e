package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"htscompass/internal/model"
)

// SaveRecords replaces the stored catalog with the given records, keyed by
// their position in the slice.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptySlice
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			row_index, code, raw_code, indent, base_description,
			spec_levels, unit, general_rate, special_rate, column2_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		levels, marshalErr := json.Marshal(rec.SpecLevels)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode spec levels for row %d: %w", i, marshalErr)
		}
		if _, err := stmt.ExecContext(ctx,
			i, rec.Code, rec.RawCode, rec.IndentLevel, rec.BaseDescription,
			string(levels), rec.Unit, rec.GeneralRate, rec.SpecialRate, rec.Column2Rate,
		); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}

	slog.Info("Saved catalog records", "count", len(records))
	return nil
}

// LoadRecords returns all stored records in row order.
func (s *SQLiteStorage) LoadRecords(ctx context.Context) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, raw_code, indent, base_description,
		       spec_levels, unit, general_rate, special_rate, column2_rate
		FROM records
		ORDER BY row_index`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var levels string
		if err := rows.Scan(
			&rec.Code, &rec.RawCode, &rec.IndentLevel, &rec.BaseDescription,
			&levels, &rec.Unit, &rec.GeneralRate, &rec.SpecialRate, &rec.Column2Rate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(levels), &rec.SpecLevels); err != nil {
			return nil, fmt.Errorf("failed to decode spec levels: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	slog.Debug("loaded catalog records", "count", len(records))
	return records, nil
}
