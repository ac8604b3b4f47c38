package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/google/uuid"
)

// ModelRecord describes a registered model.
type ModelRecord struct {
	CreatedAt time.Time
	// LatestAccuracy is the accuracy of the most recent evaluation, if any.
	LatestAccuracy *float64
	ID             string
	Name           string
	ImageCount     int
}

// SaveModel registers model under name, replacing any model already
// registered with that name along with its evaluations.
func (s *SQLiteStorage) SaveModel(ctx context.Context, name string, imageCount int, model *bayes.Model) (*ModelRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateModel(model, imageCount); err != nil {
		return nil, err
	}

	var data bytes.Buffer
	if _, err := model.WriteTo(&data); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}

	record := &ModelRecord{
		ID:         uuid.NewString(),
		Name:       name,
		ImageCount: imageCount,
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name); err != nil {
		return nil, fmt.Errorf("failed to replace model %q: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO models (id, name, image_count, data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID, record.Name, record.ImageCount, data.Bytes(), record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit model: %w", err)
	}

	return record, nil
}

// GetModel returns the record for the model registered under name.
func (s *SQLiteStorage) GetModel(ctx context.Context, name string) (*ModelRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	record, _, err := s.getModelTx(ctx, s.db, name, false)
	return record, err
}

// LoadModel returns the record and decoded parameters of the model registered under name.
func (s *SQLiteStorage) LoadModel(ctx context.Context, name string) (*ModelRecord, *bayes.Model, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, nil, err
	}

	record, data, err := s.getModelTx(ctx, s.db, name, true)
	if err != nil {
		return nil, nil, err
	}

	model, err := bayes.ReadModel(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode model %q: %w", name, err)
	}

	return record, model, nil
}

func (s *SQLiteStorage) getModelTx(ctx context.Context, q queryable, name string, withData bool) (*ModelRecord, []byte, error) {
	var (
		record   ModelRecord
		data     []byte
		accuracy sql.NullFloat64
	)

	dataColumn := "NULL"
	if withData {
		dataColumn = "m.data"
	}

	err := q.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.image_count, m.created_at, `+dataColumn+`,
			(SELECT e.accuracy FROM evaluations e WHERE e.model_id = m.id
			 ORDER BY e.evaluated_at DESC, e.id DESC LIMIT 1)
		FROM models m
		WHERE m.name = ?
	`, name).Scan(
		&record.ID,
		&record.Name,
		&record.ImageCount,
		&record.CreatedAt,
		&data,
		&accuracy,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get model: %w", err)
	}

	if accuracy.Valid {
		record.LatestAccuracy = &accuracy.Float64
	}

	return &record, data, nil
}

// ListModels returns every registered model, newest first.
func (s *SQLiteStorage) ListModels(ctx context.Context) ([]ModelRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.image_count, m.created_at,
			(SELECT e.accuracy FROM evaluations e WHERE e.model_id = m.id
			 ORDER BY e.evaluated_at DESC, e.id DESC LIMIT 1)
		FROM models m
		ORDER BY m.created_at DESC, m.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ModelRecord
	for rows.Next() {
		var (
			record   ModelRecord
			accuracy sql.NullFloat64
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.ImageCount, &record.CreatedAt, &accuracy); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		if accuracy.Valid {
			record.LatestAccuracy = &accuracy.Float64
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteModel removes the model registered under name and its evaluations.
func (s *SQLiteStorage) DeleteModel(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete model: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("model %q: %w", name, ErrNotFound)
	}

	return nil
}
