package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractFlags struct {
	Watermarked string
	Cover       string
	Output      string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the watermark from a watermarked image using the original cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		wm, c, err := newWatermarker()
		if err != nil {
			return err
		}
		marked, err := c.Decode(extractFlags.Watermarked)
		if err != nil {
			return err
		}
		cover, err := c.Decode(extractFlags.Cover)
		if err != nil {
			return err
		}

		extracted, err := wm.Extract(marked, cover)
		if err != nil {
			return err
		}
		if err := c.Encode(extracted, extractFlags.Output); err != nil {
			return err
		}
		fmt.Printf("Watermark extracted: %s\n", extractFlags.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.Watermarked, "watermarked", "m", "watermarked_image.png", "Path to watermarked image")
	extractCmd.Flags().StringVarP(&extractFlags.Cover, "cover", "i", "", "Path to the original cover image (required)")
	extractCmd.MarkFlagRequired("cover")
	extractCmd.Flags().StringVarP(&extractFlags.Output, "output", "o", "extracted_watermark.png", "Output path for the extracted watermark")
}
