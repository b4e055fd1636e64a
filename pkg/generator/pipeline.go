package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// GenerationPipeline は1回のレンダリング要求を、レート制限時の再試行を含めて最後まで処理します。
// 状態は Execute ごとに閉じているため、複数の goroutine から同時に利用できます。
type GenerationPipeline struct {
	newClient  ClientFactory
	creds      CredentialProvider
	model      string
	maxRetries int
	baseDelay  time.Duration
	sleep      SleepFunc
}

// NewGenerationPipeline は依存関係を注入して GenerationPipeline を初期化します。
func NewGenerationPipeline(newClient ClientFactory, creds CredentialProvider, cfg PipelineConfig) (*GenerationPipeline, error) {
	if newClient == nil {
		return nil, fmt.Errorf("newClient (ClientFactory) is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("creds (CredentialProvider) is required")
	}

	p := &GenerationPipeline{
		newClient:  newClient,
		creds:      creds,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		sleep:      cfg.Sleep,
	}
	if p.model == "" {
		p.model = DefaultModel
	}
	if p.maxRetries <= 0 {
		p.maxRetries = DefaultMaxRetries
	}
	if p.maxRetries > MaxRetriesLimit {
		p.maxRetries = MaxRetriesLimit
	}
	if p.baseDelay <= 0 {
		p.baseDelay = DefaultBaseDelay
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p, nil
}

// Model は使用するモデル名を返します。
func (p *GenerationPipeline) Model() string {
	return p.model
}

// Execute は要求を実行し、必ず1つの結果を返します。
func (p *GenerationPipeline) Execute(ctx context.Context, req domain.GenerationRequest) domain.Outcome {
	return p.ExecuteWith(ctx, req, ExecuteOptions{})
}

// ExecuteWith は呼び出し単位の設定を指定して要求を実行します。
// 再試行するのは RateLimited だけで、それ以外の分類は初回で確定します。
func (p *GenerationPipeline) ExecuteWith(ctx context.Context, req domain.GenerationRequest, opts ExecuteOptions) domain.Outcome {
	creds := p.creds
	if opts.Credentials != nil {
		creds = opts.Credentials
	}

	apiKey, err := creds.APIKey(ctx)
	if err != nil {
		return p.finish(ctx, failureFromError(classifyError(err), err, 0))
	}

	// 常に新しいクライアントを生成して最新のキーを使う
	client, err := p.newClient(ctx, apiKey)
	if err != nil {
		return p.finish(ctx, failureFromError(classifyError(err), fmt.Errorf("生成クライアントの初期化に失敗しました: %w", err), 0))
	}

	parts := buildParts(req)
	gOpts := gemini.GenerateOptions{
		AspectRatio:  string(req.AspectRatio()),
		SystemPrompt: req.SystemPrompt(),
		Seed:         req.Seed(),
	}
	seed := utils.DereferenceSeed(req.Seed())

	state := &retryState{maxAttempts: p.maxRetries}
	for {
		resp, err := client.GenerateWithParts(ctx, p.model, parts, gOpts)
		if err == nil {
			return p.finish(ctx, parseToOutcome(resp, seed))
		}

		category := classifyError(err)
		if category != domain.CategoryRateLimited || !state.canRetry() {
			return p.finish(ctx, failureFromError(category, err, state.calls()))
		}

		wait := BackoffDelay(state.attempt, p.baseDelay)
		progress := Progress{Attempt: state.attempt + 1, MaxAttempts: state.maxAttempts, Wait: wait}
		slog.WarnContext(ctx, "レート制限を検知しました。待機後に再試行します",
			"model", p.model, "attempt", progress.Attempt, "max_attempts", progress.MaxAttempts, "wait", wait)
		if opts.Progress != nil {
			opts.Progress(progress)
		}

		if err := p.sleep(ctx, wait); err != nil {
			return p.finish(ctx, domain.NewFailure(domain.CategoryUnknown, "再試行の待機中に処理が中断されました", err))
		}
		state.next()
	}
}

func (p *GenerationPipeline) finish(ctx context.Context, outcome domain.Outcome) domain.Outcome {
	switch o := outcome.(type) {
	case *domain.Success:
		slog.InfoContext(ctx, "画像生成が完了しました", "model", p.model, "mime_type", o.MimeType, "bytes", len(o.Data))
	case *domain.Failure:
		slog.WarnContext(ctx, "画像生成に失敗しました", "model", p.model, "category", o.Category, "message", o.Message)
	}
	return outcome
}
