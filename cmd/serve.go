package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dwtwatermark/api"
)

const (
	serverReadTimeout       = 30 * time.Second
	serverWriteTimeout      = 60 * time.Second
	serverIdleTimeout       = 60 * time.Second
	gracefulShutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve embed, extract and verify over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		wm, c, err := newWatermarker()
		if err != nil {
			return err
		}
		if !rootFlags.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		r := gin.New()
		r.Use(gin.Recovery())
		r.MaxMultipartMemory = cfg.MaxUploadBytes
		api.SetupRoutes(r, &api.Config{
			Watermarker:    wm,
			Codec:          c,
			MaxUploadBytes: cfg.MaxUploadBytes,
		})

		srv := &http.Server{
			Addr:         cfg.Listen,
			Handler:      r,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
			IdleTimeout:  serverIdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Float64("alpha", wm.Alpha()).Msg("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}
		log.Info().Msg("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		log.Info().Msg("server exited gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
