package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// responseModalities は画像生成で要求する出力形式です。
var responseModalities = []string{"TEXT", "IMAGE"}

// contentAPI は genai.Models のうち利用するメソッドだけを切り出したものです。
type contentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIClient は google.golang.org/genai を使って generator.ContentGenerator を実装します。
type GenAIClient struct {
	models contentAPI
}

// NewGenAIClient は API キーから Gemini API 用のクライアントを生成します。
func NewGenAIClient(ctx context.Context, apiKey string) (*GenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, generator.ErrCredentialNotFound
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの生成に失敗しました: %w", err)
	}
	return &GenAIClient{models: client.Models}, nil
}

// NewClientFactory はパイプラインに渡すクライアント生成関数を返します。
// 呼び出しのたびに新しいクライアントを作るため、キーの差し替えが即座に反映されます。
func NewClientFactory() generator.ClientFactory {
	return func(ctx context.Context, apiKey string) (generator.ContentGenerator, error) {
		return NewGenAIClient(ctx, apiKey)
	}
}

// GenerateWithParts はパーツを1つのユーザーメッセージとして送信します。
func (c *GenAIClient) GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, modelName, contents, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

func buildConfig(opts gemini.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: responseModalities,
		Seed:               seedToPtrInt32(opts.Seed),
	}
	if opts.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}
	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	return cfg
}

// seedToPtrInt32 は *int64 を SDK 用の *int32 に変換します。
// 範囲外の値は上位ビットが切り捨てられますが、同じ入力からは常に同じ値になります。
func seedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	val := int32(*seed)
	return &val
}
