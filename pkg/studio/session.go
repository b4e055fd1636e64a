package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/ryantrega99/moda-fashion-ai/pkg/imgutil"
)

var (
	// ErrRenderInProgress は前回の Render が終わる前に次の Render が呼ばれたことを示します。
	ErrRenderInProgress = errors.New("レンダリング中です")
	// ErrNoResult はまだ成功した結果が無いことを示します。
	ErrNoResult = errors.New("レンダリング結果がありません")
)

// Session は1つのツールについて、アップロード → プロンプト設定 → レンダリング → 結果 の状態を保持します。
// 同時に実行できる Render は1つだけです。
type Session struct {
	renderer  generator.ImageRenderer
	maxUpload int

	mu      sync.Mutex
	preset  domain.Preset
	image   []byte
	mime    string
	prompt  string
	aspect  domain.AspectRatio
	seed    *int64
	result  *domain.Success
	failure *domain.Failure

	rendering atomic.Bool
}

// Option は Session の任意設定です。
type Option func(*Session)

// WithMaxUploadBytes は JPEG へ再圧縮するしきい値を変更します。
func WithMaxUploadBytes(n int) Option {
	return func(s *Session) { s.maxUpload = n }
}

// NewSession は preset を選択した状態の Session を生成します。
func NewSession(renderer generator.ImageRenderer, preset domain.Preset, opts ...Option) (*Session, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer (ImageRenderer) is required")
	}
	s := &Session{renderer: renderer, maxUpload: imgutil.MaxUploadBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.SelectPreset(preset)
	return s, nil
}

// SelectPreset はツールを切り替えます。画像と結果は破棄され、プロンプトはツールの既定値に戻ります。
func (s *Session) SelectPreset(p domain.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.preset = p
	s.image, s.mime = nil, ""
	s.prompt = p.Prompt
	s.aspect = p.AspectRatio
	if s.aspect == "" {
		s.aspect = domain.DefaultAspectRatio
	}
	s.result, s.failure = nil, nil
}

// Preset は選択中のツールを返します。
func (s *Session) Preset() domain.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preset
}

// Upload は入力画像を設定します。mimeType が空なら内容から判定します。
// 大きすぎる画像は送信前に JPEG へ再圧縮します。
func (s *Session) Upload(data []byte, mimeType string) error {
	if len(data) == 0 {
		return domain.ErrNoImage
	}
	if mimeType == "" {
		mimeType = imgutil.DetectMimeType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: %s", domain.ErrNotAnImage, mimeType)
	}
	// 申告された MIME タイプだけでなく中身も確認する
	if !imgutil.IsImage(data) {
		return fmt.Errorf("%w: %s と申告されましたが内容は %s です", domain.ErrNotAnImage, mimeType, imgutil.DetectMimeType(data))
	}

	data, mimeType, err := imgutil.ShrinkIfLarge(data, mimeType, s.maxUpload)
	if err != nil {
		return fmt.Errorf("画像の再圧縮に失敗しました: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = append([]byte(nil), data...)
	s.mime = mimeType
	s.result, s.failure = nil, nil
	return nil
}

// UploadDataURL は "data:<mime>;base64,..." 形式の画像を設定します。
func (s *Session) UploadDataURL(dataURL string) error {
	data, mimeType, err := imgutil.ParseDataURL(dataURL)
	if err != nil {
		return err
	}
	return s.Upload(data, mimeType)
}

// HasImage は入力画像が設定済みかどうかを返します。
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.image) > 0
}

func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
}

func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// SetAspectRatio は出力のアスペクト比を設定します。
func (s *Session) SetAspectRatio(a domain.AspectRatio) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedAspect, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aspect = a
	return nil
}

// SetSeed は乱数シードを固定します。ツールを切り替えても維持されます。
func (s *Session) SetSeed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = &seed
}

// Rendering は Render の実行中かどうかを返します。
func (s *Session) Rendering() bool {
	return s.rendering.Load()
}

// Render は現在の画像とプロンプトで1回レンダリングします。
// 画像かプロンプトが無い場合や、実行中の Render がある場合はエンドポイントを呼ばずにエラーを返します。
func (s *Session) Render(ctx context.Context, opts generator.ExecuteOptions) (domain.Outcome, error) {
	if !s.rendering.CompareAndSwap(false, true) {
		return nil, ErrRenderInProgress
	}
	defer s.rendering.Store(false)

	s.mu.Lock()
	image, mime, prompt, aspect, presetID := s.image, s.mime, s.prompt, s.aspect, s.preset.ID
	var reqOpts []domain.RequestOption
	if s.seed != nil {
		reqOpts = append(reqOpts, domain.WithSeed(*s.seed))
	}
	s.result, s.failure = nil, nil
	s.mu.Unlock()

	req, err := domain.NewGenerationRequest(image, mime, prompt, aspect, reqOpts...)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "レンダリングを開始します", "tool", presetID, "aspect_ratio", aspect, "bytes", len(image))
	outcome := s.renderer.ExecuteWith(ctx, req, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch o := outcome.(type) {
	case *domain.Success:
		s.result = o
	case *domain.Failure:
		s.failure = o
	}
	return outcome, nil
}

// Result は直近の成功結果を返します。
func (s *Session) Result() (*domain.Success, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// LastFailure は直近の失敗を返します。
func (s *Session) LastFailure() (*domain.Failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure, s.failure != nil
}

// DownloadName は結果を保存するときのファイル名を返します。
func (s *Session) DownloadName(now time.Time) (string, error) {
	res, ok := s.Result()
	if !ok {
		return "", ErrNoResult
	}
	return DownloadName(now, res.MimeType), nil
}

// DownloadName は "vogue-hd-render-<unixミリ秒>.<拡張子>" 形式のファイル名を返します。
func DownloadName(now time.Time, mimeType string) string {
	return fmt.Sprintf("vogue-hd-render-%d.%s", now.UnixMilli(), imgutil.ExtensionFor(mimeType))
}
