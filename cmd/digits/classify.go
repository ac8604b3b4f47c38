package main

import (
	"fmt"

	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/spf13/cobra"
)

func classifyCmd(a *app) *cobra.Command {
	var (
		source     modelSource
		imagesPath string
		show       bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the most likely digit for each image",
		Long: `Classify every image in an image file and print one digit per line,
in file order.`,
		Example: `  digits classify --images unknown.txt --model-file model.txt
  digits classify --images unknown.txt --model baseline --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			classifier, _, err := source.load(ctx, a)
			if err != nil {
				return err
			}

			images, err := loadImages(imagesPath, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, img := range images {
				if err := ctx.Err(); err != nil {
					return err
				}

				digit := classifier.Classify(img)
				if show {
					writeLine(out, cli.RenderImage(img))
					writeLine(out, cli.FormatInfo(fmt.Sprintf("image %d is a %d", i, digit)))
					continue
				}
				writeLine(out, digit)
			}
			return nil
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringVar(&imagesPath, "images", "", "Image file to classify")
	cmd.Flags().BoolVar(&show, "show", false, "Draw each image next to its classification")
	_ = cmd.MarkFlagRequired("images")

	return cmd
}
