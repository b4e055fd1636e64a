package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/ryantrega99/moda-fashion-ai/internal/i18n"
	"github.com/ryantrega99/moda-fashion-ai/pkg/adapters"
	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/ryantrega99/moda-fashion-ai/pkg/studio"
	"github.com/spf13/cobra"
)

// errRenderFailed は Failure で終わったことを示します。文言は表示済みです。
var errRenderFailed = errors.New("render failed")

type renderFlags struct {
	tool   string
	input  string
	prompt string
	aspect string
	seed   int64
	outDir string
	askKey bool
}

// keyPrompter は別の API キーを利用者に尋ねます。キャンセル時は zenity.ErrCanceled を返します。
type keyPrompter func(failure *domain.Failure, loc i18n.Localizer) (string, error)

func newRenderCmd(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one garment photo with a studio tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, f)
		},
	}
	cmd.Flags().StringVarP(&f.tool, "tool", "t", domain.PresetMannequinRemover, "Studio tool id (see `moda tools`)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Garment photo: local path, file:// URI or http(s) URL (default: file dialog)")
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "Override the tool's default prompt")
	cmd.Flags().StringVar(&f.aspect, "aspect", "", "Aspect ratio, e.g. 9:16, 4:5, 1:1")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Fixed seed for reproducible output")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", ".", "Directory to write the render to")
	cmd.Flags().BoolVar(&f.askKey, "ask-key", false, "Ask for another API key on auth or rate-limit failures and retry once")
	return cmd
}

func runRender(cmd *cobra.Command, g *globalFlags, f *renderFlags) error {
	ctx := cmd.Context()
	cfg, err := g.load()
	if err != nil {
		return err
	}
	loc := i18n.New(cfg.Locale)

	preset, ok := domain.PresetByID(f.tool)
	if !ok {
		return fmt.Errorf("未知のツールです: %s", f.tool)
	}

	input := f.input
	if input == "" {
		if input, err = pickImageFile(); err != nil {
			return err
		}
	}
	source, err := adapters.NewImageSource(adapters.NewFetcher(adapters.DefaultFetchTimeout), adapters.LocalReader{})
	if err != nil {
		return err
	}
	data, err := source.Load(ctx, input)
	if err != nil {
		return err
	}

	pipeline, err := generator.NewGenerationPipeline(adapters.NewClientFactory(), g.credentials(cfg), cfg.PipelineConfig())
	if err != nil {
		return err
	}

	session, err := studio.NewSession(pipeline, preset)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		session.SetSeed(f.seed)
	}
	if err := session.Upload(data, ""); err != nil {
		return err
	}
	if f.prompt != "" {
		session.SetPrompt(f.prompt)
	}
	if f.aspect != "" {
		aspect, err := domain.ParseAspectRatio(f.aspect)
		if err != nil {
			return err
		}
		if err := session.SetAspectRatio(aspect); err != nil {
			return err
		}
	}

	var prompter keyPrompter
	if f.askKey {
		prompter = zenityKeyPrompt
	}

	log.Info().Str("tool", preset.ID).Str("input", input).Str("model", pipeline.Model()).Msg("rendering")
	outcome, err := renderWithKeyPrompt(ctx, session, cmd.ErrOrStderr(), loc, prompter)
	if err != nil {
		return err
	}
	return writeOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), session, outcome, f.outDir, loc)
}

// renderWithKeyPrompt は1回レンダリングし、別キーで解決し得る失敗なら prompter で尋ねて1度だけやり直します。
func renderWithKeyPrompt(ctx context.Context, session *studio.Session, progressOut io.Writer, loc i18n.Localizer, prompter keyPrompter) (domain.Outcome, error) {
	opts := generator.ExecuteOptions{
		Progress: func(p generator.Progress) { fmt.Fprintln(progressOut, p.Message()) },
	}

	outcome, err := session.Render(ctx, opts)
	if err != nil {
		return nil, err
	}
	failure, ok := outcome.(*domain.Failure)
	if !ok || prompter == nil || !i18n.NeedsAlternateKey(failure.Category) {
		return outcome, nil
	}

	key, err := prompter(failure, loc)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return outcome, nil
		}
		return nil, fmt.Errorf("APIキーの入力に失敗しました: %w", err)
	}
	opts.Credentials = adapters.StaticCredentials(key)
	return session.Render(ctx, opts)
}

func writeOutcome(out, errOut io.Writer, session *studio.Session, outcome domain.Outcome, outDir string, loc i18n.Localizer) error {
	switch o := outcome.(type) {
	case *domain.Success:
		name, err := session.DownloadName(time.Now())
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, o.Data, 0o644); err != nil {
			return fmt.Errorf("結果の保存に失敗しました: %w", err)
		}
		fmt.Fprintln(out, path)
		return nil
	case *domain.Failure:
		fmt.Fprintln(errOut, loc.Failure(o))
		log.Debug().Str("category", string(o.Category)).Err(o.Err).Msg(o.Message)
		return fmt.Errorf("%w: %s", errRenderFailed, o.Category)
	default:
		return fmt.Errorf("unexpected outcome %T", outcome)
	}
}

func pickImageFile() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Select garment photo"),
		zenity.FileFilters{
			{Name: "Images", Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.gif"}},
		},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", errors.New("画像が選択されませんでした")
	}
	return path, err
}

func zenityKeyPrompt(failure *domain.Failure, loc i18n.Localizer) (string, error) {
	return zenity.Entry(loc.Message(failure.Category),
		zenity.Title("Gemini API Key"),
		zenity.HideText(),
	)
}
