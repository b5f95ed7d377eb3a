package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dwtwatermark"
	"dwtwatermark/codec"
	"dwtwatermark/config"
)

var (
	rootFlags struct {
		Config    string
		Debug     bool
		Alpha     float64
		Threshold float64
	}

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dwtwatermark",
	Short: "Embed, extract and verify image watermarks in the Haar wavelet domain",
	Long: `Embeds a watermark image into the low-frequency approximation sub-band of a
cover image, extracts it again using the original cover and verifies the
extracted watermark against the original by SSIM and PSNR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(rootFlags.Config)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("alpha") {
			cfg.Alpha = rootFlags.Alpha
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Threshold = rootFlags.Threshold
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		setupLogging(cfg, rootFlags.Debug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.Config, "config", "c", "dwtwatermark.yaml", "Config file")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.Debug, "debug", false, "Debug logging level")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.Alpha, "alpha", dwtwatermark.DefaultAlpha, "Embedding strength (must match between embed and extract)")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.Threshold, "threshold", dwtwatermark.DefaultThreshold, "SSIM threshold a watermark must exceed to verify")
}

func setupLogging(cfg config.Config, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if cfg.Info {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.Human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newWatermarker() (*dwtwatermark.Watermarker, *codec.Codec, error) {
	wm, err := cfg.Watermarker(dwtwatermark.WithLogger(log.Logger))
	if err != nil {
		return nil, nil, err
	}
	return wm, codec.New(cfg.JPEGQuality), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
