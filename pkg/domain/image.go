package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoImage           = errors.New("画像データが空です")
	ErrNotAnImage        = errors.New("画像以外のデータが指定されました")
	ErrEmptyPrompt       = errors.New("プロンプトが空です")
	ErrUnsupportedAspect = errors.New("未対応のアスペクト比です")
)

// AspectRatio は生成画像のアスペクト比です。
type AspectRatio string

const (
	AspectSquare     AspectRatio = "1:1"
	AspectPortrait23 AspectRatio = "2:3"
	AspectLand32     AspectRatio = "3:2"
	AspectPortrait34 AspectRatio = "3:4"
	AspectLand43     AspectRatio = "4:3"
	AspectPortrait45 AspectRatio = "4:5"
	AspectLand54     AspectRatio = "5:4"
	AspectStory      AspectRatio = "9:16"
	AspectWide       AspectRatio = "16:9"
	AspectUltraWide  AspectRatio = "21:9"

	// DefaultAspectRatio はスタジオ出力の既定値（縦長のカタログ用）です。
	DefaultAspectRatio = AspectStory
)

var supportedAspects = map[AspectRatio]struct{}{
	AspectSquare: {}, AspectPortrait23: {}, AspectLand32: {}, AspectPortrait34: {}, AspectLand43: {},
	AspectPortrait45: {}, AspectLand54: {}, AspectStory: {}, AspectWide: {}, AspectUltraWide: {},
}

// Valid は Gemini の ImageConfig が受け付ける値かどうかを返します。
func (a AspectRatio) Valid() bool {
	_, ok := supportedAspects[a]
	return ok
}

// ParseAspectRatio は文字列を AspectRatio に変換します。空文字は既定値になります。
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultAspectRatio, nil
	}
	a := AspectRatio(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAspect, s)
	}
	return a, nil
}

// GenerationRequest は1回のレンダリング要求です。
// 生成後は変更できないよう、フィールドは非公開にしてアクセサ経由で参照します。
type GenerationRequest struct {
	image        []byte
	mimeType     string
	prompt       string
	aspectRatio  AspectRatio
	systemPrompt string
	seed         *int64
}

// RequestOption は GenerationRequest の任意項目を設定します。
type RequestOption func(*GenerationRequest)

// WithSystemPrompt はシステムプロンプトを設定します。
func WithSystemPrompt(s string) RequestOption {
	return func(r *GenerationRequest) { r.systemPrompt = s }
}

// WithSeed は乱数シードを固定します。
func WithSeed(seed int64) RequestOption {
	return func(r *GenerationRequest) { r.seed = &seed }
}

// NewGenerationRequest は入力を検証して GenerationRequest を組み立てます。
// mimeType が空の場合はバイト列から判定します。
func NewGenerationRequest(image []byte, mimeType, prompt string, aspect AspectRatio, opts ...RequestOption) (GenerationRequest, error) {
	if len(image) == 0 {
		return GenerationRequest{}, ErrNoImage
	}
	if strings.TrimSpace(prompt) == "" {
		return GenerationRequest{}, ErrEmptyPrompt
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return GenerationRequest{}, fmt.Errorf("%w: %s", ErrNotAnImage, mimeType)
	}
	if aspect == "" {
		aspect = DefaultAspectRatio
	}
	if !aspect.Valid() {
		return GenerationRequest{}, fmt.Errorf("%w: %s", ErrUnsupportedAspect, aspect)
	}

	req := GenerationRequest{
		image:       append([]byte(nil), image...),
		mimeType:    mimeType,
		prompt:      prompt,
		aspectRatio: aspect,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req, nil
}

// Image は入力画像のコピーを返します。
func (r GenerationRequest) Image() []byte { return append([]byte(nil), r.image...) }

func (r GenerationRequest) MimeType() string         { return r.mimeType }
func (r GenerationRequest) Prompt() string           { return r.prompt }
func (r GenerationRequest) AspectRatio() AspectRatio { return r.aspectRatio }
func (r GenerationRequest) SystemPrompt() string     { return r.systemPrompt }

// Seed は固定シードを返します。未指定なら nil です。
func (r GenerationRequest) Seed() *int64 {
	if r.seed == nil {
		return nil
	}
	v := *r.seed
	return &v
}
