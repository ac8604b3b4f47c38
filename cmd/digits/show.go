package main

import (
	"fmt"

	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var (
		imagesPath string
		labelsPath string
		index      int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Draw an image from an image file",
		Example: `  digits show --images testimages --index 12
  digits show --images testimages --labels testlabels --index 12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			images, err := loadImages(imagesPath, labelsPath)
			if err != nil {
				return err
			}

			if index < 0 || index >= len(images) {
				return fmt.Errorf("index %d out of range: %s holds %d images", index, imagesPath, len(images))
			}

			writeLine(cmd.OutOrStdout(), cli.RenderImage(images[index]))
			return nil
		},
	}

	cmd.Flags().StringVar(&imagesPath, "images", "", "Image file")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Label file, to show the image's label")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Zero-based image index")
	_ = cmd.MarkFlagRequired("images")

	return cmd
}
