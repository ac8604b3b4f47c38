package main

import (
	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/Veraticus/digit-bayes/internal/common"
	"github.com/spf13/cobra"
)

func evaluateCmd(a *app) *cobra.Command {
	var (
		source     modelSource
		imagesPath string
		labelsPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure a model's accuracy on a labeled corpus",
		Long: `Classify every image of a labeled corpus and report overall accuracy,
per-digit accuracy and the digit each class is most often mistaken for.

Evaluations of registry models are recorded in the model's history.`,
		Example: `  digits evaluate --images testimages --labels testlabels --model-file model.txt
  digits evaluate --images testimages --labels testlabels --model baseline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			classifier, record, err := source.load(ctx, a)
			if err != nil {
				return err
			}

			images, err := loadCorpus(imagesPath, labelsPath)
			if err != nil {
				return err
			}

			opts := bayes.EvaluateOptions{Workers: a.cfg.Workers}
			if !quiet {
				bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(images), "Evaluating")
				opts.Progress = cli.ProgressFunc(bar)
			}

			eval, err := classifier.Evaluate(ctx, images, opts)
			if err != nil {
				return err
			}

			writeLine(cmd.OutOrStdout(), cli.RenderEvaluation(eval))

			if record == nil {
				return nil
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			// The report is already printed, so a failed history write is not fatal.
			if _, err := store.SaveEvaluation(ctx, record.ID, eval); err != nil {
				common.LogError(err, "Failed to record evaluation", common.Fields{"model": record.Name})
			}
			return nil
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringVar(&imagesPath, "images", "", "Test image file")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Test label file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("labels")

	return cmd
}
