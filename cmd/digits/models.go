package main

import (
	"fmt"

	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/spf13/cobra"
)

func modelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List registered models",
		Long: `List the models kept in the registry with the accuracy of their most
recent evaluation.`,
		Example: `  digits models
  digits models history baseline
  digits models delete baseline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			records, err := store.ListModels(ctx)
			if err != nil {
				return err
			}

			writeLine(cmd.OutOrStdout(), cli.RenderModels(records))
			return nil
		},
	}

	cmd.AddCommand(modelHistoryCmd(a))
	cmd.AddCommand(deleteModelCmd(a))

	return cmd
}

func modelHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME",
		Short: "Show the evaluation history of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			record, err := store.GetModel(ctx, args[0])
			if err != nil {
				return err
			}

			evaluations, err := store.ListEvaluations(ctx, record.ID)
			if err != nil {
				return err
			}

			writeLine(cmd.OutOrStdout(), cli.RenderHistory(record, evaluations))
			return nil
		},
	}
}

func deleteModelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a model and its evaluation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteModel(ctx, args[0]); err != nil {
				return err
			}

			writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted model %q", args[0])))
			return nil
		},
	}
}
