package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/Veraticus/digit-bayes/internal/common"
	"github.com/spf13/cobra"
)

func trainCmd(a *app) *cobra.Command {
	var (
		imagesPath string
		labelsPath string
		outputPath string
		name       string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from a labeled corpus",
		Long: `Estimate class priors and per-pixel conditional probabilities from a
labeled corpus. The image file holds 28 lines per image; the label file holds
one digit per line.

The trained model is written to --output, registered under --name, or both.`,
		Example: `  # Train and write a model file
  digits train --images trainingimages --labels traininglabels --output model.txt

  # Train and keep the model in the registry
  digits train --images trainingimages --labels traininglabels --name baseline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			images, err := loadCorpus(imagesPath, labelsPath)
			if err != nil {
				return err
			}

			opts := bayes.TrainOptions{Workers: a.cfg.Workers}
			if !quiet {
				bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(images), "Training")
				opts.Progress = cli.ProgressFunc(bar)
			}

			start := time.Now()
			model, err := bayes.Train(ctx, images, opts)
			if err != nil {
				return err
			}
			common.LogInfo("Trained model", common.Fields{
				"images":   len(images),
				"workers":  a.cfg.Workers,
				"duration": time.Since(start).Round(time.Millisecond).String(),
			})

			out := cmd.OutOrStdout()
			if outputPath != "" {
				if err := model.WriteFile(outputPath); err != nil {
					return fmt.Errorf("failed to write model: %w", err)
				}
				writeLine(out, cli.FormatSuccess(fmt.Sprintf("Wrote model trained on %d images to %s", len(images), outputPath)))
			}

			if name != "" {
				store, err := a.initStorage(ctx)
				if err != nil {
					return err
				}
				defer closeStorage(store)

				record, err := store.SaveModel(ctx, name, len(images), model)
				if err != nil {
					return err
				}
				writeLine(out, cli.FormatSuccess(fmt.Sprintf("Registered model %q (%s) trained on %d images", record.Name, record.ID, record.ImageCount)))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&imagesPath, "images", "", "Training image file")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Training label file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the model to this file")
	cmd.Flags().StringVar(&name, "name", "", "Register the model under this name")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("labels")
	cmd.MarkFlagsOneRequired("output", "name")

	return cmd
}
