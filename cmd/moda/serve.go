package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/ryantrega99/moda-fashion-ai/internal/metrics"
	"github.com/ryantrega99/moda-fashion-ai/internal/server"
	"github.com/ryantrega99/moda-fashion-ai/pkg/adapters"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			pipeline, err := generator.NewGenerationPipeline(adapters.NewClientFactory(), g.credentials(cfg), cfg.PipelineConfig())
			if err != nil {
				return err
			}
			srv, err := server.New(pipeline, metrics.New(), server.Options{Logger: log.Logger, Locale: cfg.Locale})
			if err != nil {
				return err
			}

			if g.apiKey == "" && cfg.APIKey == "" {
				log.Warn().Msg("GEMINI_API_KEY が未設定です。X-Api-Key ヘッダーの無い要求は AUTH_INVALID になります")
			}
			return serve(cmd.Context(), cfg.Addr, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: MODA_ADDR or :8080)")
	return cmd
}

// serve は ctx が終了するまで HTTP サーバーを動かし、終了時はグレースフルに停止します。
func serve(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
