package main

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var embedFlags struct {
	Cover     string
	Watermark string
	QR        string
	Output    string
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a watermark image into a cover image",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (embedFlags.Watermark == "") == (embedFlags.QR == "") {
			return fmt.Errorf("exactly one of --watermark or --qr is required")
		}
		wm, c, err := newWatermarker()
		if err != nil {
			return err
		}
		cover, err := c.Decode(embedFlags.Cover)
		if err != nil {
			return err
		}

		var marked *image.RGBA
		if embedFlags.QR != "" {
			marked, err = wm.EmbedQRCode(cover, embedFlags.QR)
		} else {
			watermark, derr := c.Decode(embedFlags.Watermark)
			if derr != nil {
				return derr
			}
			marked, err = wm.Embed(cover, watermark)
		}
		if err != nil {
			return err
		}
		if err := c.Encode(marked, embedFlags.Output); err != nil {
			return err
		}

		b := marked.Bounds()
		log.Info().Str("output", embedFlags.Output).Int("width", b.Dx()).Int("height", b.Dy()).Msg("watermark embedded")
		fmt.Printf("Watermark embedded: %s\n", embedFlags.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVarP(&embedFlags.Cover, "cover", "i", "", "Path to cover image (required)")
	embedCmd.MarkFlagRequired("cover")
	embedCmd.Flags().StringVarP(&embedFlags.Watermark, "watermark", "w", "", "Path to watermark image")
	embedCmd.Flags().StringVar(&embedFlags.QR, "qr", "", "Text to embed as a QR code watermark instead of --watermark")
	embedCmd.Flags().StringVarP(&embedFlags.Output, "output", "o", "watermarked_image.png", "Output path for the watermarked image")
}
