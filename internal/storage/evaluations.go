package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/digit-bayes/internal/bayes"
)

// EvaluationRecord is a stored accuracy measurement of a registered model.
type EvaluationRecord struct {
	EvaluatedAt time.Time
	ModelID     string
	PerClass    [bayes.NumClasses]bayes.ClassResult
	ID          int64
	Total       int
	Correct     int
	Accuracy    float64
}

// SaveEvaluation records eval against the model with modelID.
func (s *SQLiteStorage) SaveEvaluation(ctx context.Context, modelID string, eval *bayes.Evaluation) (*EvaluationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(modelID, "modelID"); err != nil {
		return nil, err
	}
	if err := validateEvaluation(eval); err != nil {
		return nil, err
	}

	record := &EvaluationRecord{
		ModelID:     modelID,
		Total:       eval.Total,
		Correct:     eval.Correct,
		Accuracy:    eval.Accuracy(),
		PerClass:    eval.PerClass,
		EvaluatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO evaluations (model_id, total, correct, accuracy, evaluated_at)
		VALUES (?, ?, ?, ?, ?)
	`, modelID, record.Total, record.Correct, record.Accuracy, record.EvaluatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	record.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evaluation_classes (evaluation_id, digit, total, correct)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for digit, class := range eval.PerClass {
		if _, err := stmt.ExecContext(ctx, record.ID, digit, class.Total, class.Correct); err != nil {
			return nil, fmt.Errorf("failed to save results for digit %d: %w", digit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit evaluation: %w", err)
	}

	return record, nil
}

// ListEvaluations returns the evaluations of the model with modelID, newest first.
func (s *SQLiteStorage) ListEvaluations(ctx context.Context, modelID string) ([]EvaluationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(modelID, "modelID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model_id, total, correct, accuracy, evaluated_at
		FROM evaluations
		WHERE model_id = ?
		ORDER BY evaluated_at DESC, id DESC
	`, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []EvaluationRecord
	for rows.Next() {
		var record EvaluationRecord
		if err := rows.Scan(&record.ID, &record.ModelID, &record.Total, &record.Correct, &record.Accuracy, &record.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}
	_ = rows.Close()

	for i := range records {
		if err := s.loadClassResults(ctx, s.db, &records[i]); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (s *SQLiteStorage) loadClassResults(ctx context.Context, q queryable, record *EvaluationRecord) error {
	rows, err := q.QueryContext(ctx, `
		SELECT digit, total, correct
		FROM evaluation_classes
		WHERE evaluation_id = ?
	`, record.ID)
	if err != nil {
		return fmt.Errorf("failed to load results for evaluation %d: %w", record.ID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var digit, total, correct int
		if err := rows.Scan(&digit, &total, &correct); err != nil {
			return fmt.Errorf("failed to scan class result: %w", err)
		}
		if digit < 0 || digit >= bayes.NumClasses {
			return fmt.Errorf("evaluation %d has result for digit %d", record.ID, digit)
		}
		record.PerClass[digit] = bayes.ClassResult{Total: total, Correct: correct}
	}

	return rows.Err()
}
