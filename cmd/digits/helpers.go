package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/storage"
	"github.com/spf13/cobra"
)

// initStorage opens the model registry and brings its schema up to date.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		closeStorage(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// loadCorpus reads a labeled corpus from an image file and a label file.
func loadCorpus(imagesPath, labelsPath string) ([]pixel.Image, error) {
	imageFile, err := os.Open(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open images: %w", err)
	}
	defer closeFile(imageFile)

	labelFile, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer closeFile(labelFile)

	images, err := pixel.GenerateCorpus(imageFile, labelFile)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded corpus", "images", len(images), "image_file", imagesPath, "label_file", labelsPath)
	return images, nil
}

// loadImages reads an image file. When labelsPath is set the images are labeled.
func loadImages(imagesPath, labelsPath string) ([]pixel.Image, error) {
	if labelsPath != "" {
		return loadCorpus(imagesPath, labelsPath)
	}

	f, err := os.Open(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open images: %w", err)
	}
	defer closeFile(f)

	return pixel.ReadImages(f)
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("Failed to close file", "path", f.Name(), "error", err)
	}
}

// modelSource is the --model-file / --model pair shared by evaluate and classify.
type modelSource struct {
	file string
	name string
}

func (s *modelSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.file, "model-file", "", "Model file written by train --output")
	cmd.Flags().StringVar(&s.name, "model", "", "Name of a model in the registry")
	cmd.MarkFlagsMutuallyExclusive("model-file", "model")
	cmd.MarkFlagsOneRequired("model-file", "model")
}

// load returns a classifier for the selected model. The registry record is
// nil when the model came from a file.
func (s *modelSource) load(ctx context.Context, a *app) (*bayes.Classifier, *storage.ModelRecord, error) {
	if s.file != "" {
		model, err := bayes.ReadModelFile(s.file)
		if err != nil {
			return nil, nil, err
		}
		return bayes.NewClassifier(model), nil, nil
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer closeStorage(store)

	record, model, err := store.LoadModel(ctx, s.name)
	if err != nil {
		return nil, nil, err
	}
	return bayes.NewClassifier(model), record, nil
}

func writeLine(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
