// Package testutil provides shared test fixtures for the digit classifier.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/storage"
)

// TestDB is a migrated in-memory model registry.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	record := db.SeedModel("stripes", digits.Stripes(t))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedModel trains a model on images and registers it under name.
func (db *TestDB) SeedModel(name string, images []pixel.Image) *storage.ModelRecord {
	db.t.Helper()

	model, err := bayes.EstimateFromCorpus(images)
	if err != nil {
		db.t.Fatalf("failed to train model %q: %v", name, err)
	}

	record, err := db.Storage.SaveModel(context.Background(), name, len(images), model)
	if err != nil {
		db.t.Fatalf("failed to save model %q: %v", name, err)
	}
	return record
}

// SeedEvaluation evaluates the model registered under name against images
// and records the result.
func (db *TestDB) SeedEvaluation(name string, images []pixel.Image) *storage.EvaluationRecord {
	db.t.Helper()
	ctx := context.Background()

	record, model, err := db.Storage.LoadModel(ctx, name)
	if err != nil {
		db.t.Fatalf("failed to load model %q: %v", name, err)
	}

	eval, err := bayes.NewClassifier(model).Evaluate(ctx, images, bayes.EvaluateOptions{})
	if err != nil {
		db.t.Fatalf("failed to evaluate model %q: %v", name, err)
	}

	saved, err := db.Storage.SaveEvaluation(ctx, record.ID, eval)
	if err != nil {
		db.t.Fatalf("failed to save evaluation for %q: %v", name, err)
	}
	return saved
}
