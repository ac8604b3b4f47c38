package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/testutil/digits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage returns a migrated in-memory registry.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func trainStripes(t *testing.T) *bayes.Model {
	t.Helper()
	model, err := bayes.EstimateFromCorpus(digits.Stripes(t))
	require.NoError(t, err)
	return model
}

func TestSQLiteStorage_SaveAndLoadModel(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	model := trainStripes(t)

	saved, err := store.SaveModel(ctx, "stripes", 10, model)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "stripes", saved.Name)
	assert.Equal(t, 10, saved.ImageCount)

	record, loaded, err := store.LoadModel(ctx, "stripes")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, record.ID)
	assert.Equal(t, 10, record.ImageCount)
	assert.Nil(t, record.LatestAccuracy)
	assert.WithinDuration(t, saved.CreatedAt, record.CreatedAt, time.Second)
	assert.True(t, model.ApproxEqual(loaded))

	got, err := store.GetModel(ctx, "stripes")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestSQLiteStorage_SaveModelReplacesByName(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	model := trainStripes(t)

	first, err := store.SaveModel(ctx, "digits", 10, model)
	require.NoError(t, err)
	_, err = store.SaveEvaluation(ctx, first.ID, &bayes.Evaluation{Total: 4, Correct: 3})
	require.NoError(t, err)

	second, err := store.SaveModel(ctx, "digits", 20, model)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	models, err := store.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, 20, models[0].ImageCount)
	assert.Nil(t, models[0].LatestAccuracy)

	evals, err := store.ListEvaluations(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, evals)
}

func TestSQLiteStorage_Evaluations(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	record, err := store.SaveModel(ctx, "stripes", 10, trainStripes(t))
	require.NoError(t, err)

	first := &bayes.Evaluation{Total: 10, Correct: 5}
	first.PerClass[3] = bayes.ClassResult{Total: 4, Correct: 2}
	_, err = store.SaveEvaluation(ctx, record.ID, first)
	require.NoError(t, err)

	second := &bayes.Evaluation{Total: 8, Correct: 6}
	second.PerClass[9] = bayes.ClassResult{Total: 8, Correct: 6}
	saved, err := store.SaveEvaluation(ctx, record.ID, second)
	require.NoError(t, err)
	assert.Equal(t, 0.75, saved.Accuracy)

	evals, err := store.ListEvaluations(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, saved.ID, evals[0].ID)
	assert.Equal(t, 8, evals[0].Total)
	assert.Equal(t, bayes.ClassResult{Total: 8, Correct: 6}, evals[0].PerClass[9])
	assert.Equal(t, bayes.ClassResult{Total: 4, Correct: 2}, evals[1].PerClass[3])
	assert.Equal(t, 0.5, evals[1].Accuracy)

	models, err := store.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.NotNil(t, models[0].LatestAccuracy)
	assert.Equal(t, 0.75, *models[0].LatestAccuracy)
}

func TestSQLiteStorage_DeleteModel(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	record, err := store.SaveModel(ctx, "gone", 10, trainStripes(t))
	require.NoError(t, err)
	_, err = store.SaveEvaluation(ctx, record.ID, &bayes.Evaluation{Total: 1, Correct: 1})
	require.NoError(t, err)

	require.NoError(t, store.DeleteModel(ctx, "gone"))

	_, err = store.GetModel(ctx, "gone")
	assert.True(t, errors.Is(err, ErrNotFound))

	evals, err := store.ListEvaluations(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, evals)

	assert.True(t, errors.Is(store.DeleteModel(ctx, "gone"), ErrNotFound))
}

func TestSQLiteStorage_NotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetModel(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = store.LoadModel(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	models, err := store.ListModels(ctx)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestSQLiteStorage_OnDisk(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "registry.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	assert.Equal(t, dbPath, store.Path())

	_, err = store.SaveModel(ctx, "stripes", 10, trainStripes(t))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	models, err := reopened.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "stripes", models[0].Name)
}
