package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/ryantrega99/moda-fashion-ai/internal/config"
	"github.com/ryantrega99/moda-fashion-ai/internal/logging"
	"github.com/ryantrega99/moda-fashion-ai/pkg/adapters"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/spf13/cobra"
)

// globalFlags は全サブコマンド共通のフラグです。空のものは設定ファイル・環境変数の値を使います。
type globalFlags struct {
	apiKey     string
	model      string
	maxRetries int
	locale     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "moda",
		Short: "Studio-grade garment renders powered by Gemini image generation",
		Long: `moda renders garment photographs into studio assets: ghost mannequin
isolation with a transparent background, or editorial shots on a real model.

Examples:
  moda tools
  moda render --tool mannequin-remover --input ./dress.jpg
  moda render -t koko-ai -i https://cdn.example.com/jacket.png --aspect 4:5 --ask-key
  moda serve --addr :8080`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&g.apiKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY)")
	root.PersistentFlags().StringVarP(&g.model, "model", "m", "", "Gemini model to use")
	root.PersistentFlags().IntVar(&g.maxRetries, "max-retries", 0, "Retries after a rate-limit response (0 = config default, at most 10)")
	root.PersistentFlags().StringVar(&g.locale, "locale", "", "Language for failure messages (id, en, ja)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newToolsCmd(), newRenderCmd(g), newServeCmd(g))
	return root
}

// load は設定を読み込み、フラグで上書きしてからロガーを初期化します。
func (g *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.maxRetries > 0 {
		cfg.MaxRetries = g.maxRetries
	}
	if g.locale != "" {
		cfg.Locale = g.locale
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	logging.Init(cfg.LogLevel)
	return cfg, nil
}

// credentials は --api-key、環境変数の順にキーを探します。
func (g *globalFlags) credentials(cfg config.Config) generator.CredentialProvider {
	return adapters.ChainCredentials{
		adapters.StaticCredentials(g.apiKey),
		adapters.StaticCredentials(cfg.APIKey),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("moda failed")
		stop()
		os.Exit(1)
	}
}
