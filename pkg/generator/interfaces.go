package generator

import (
	"context"
	"time"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ContentGenerator は外部の生成エンドポイントのうち、パイプラインが利用する部分です。
// gemini.GenerativeModel を満たすクライアントはそのまま渡せます。
type ContentGenerator interface {
	GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ClientFactory は APIキーからクライアントを生成します。
// 常に最新のキーを使うため、パイプラインは Execute ごとに呼び出します。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// CredentialProvider は呼び出し時点の APIキーを提供します。
// キーが見つからない場合は ErrCredentialNotFound を返してください。
type CredentialProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// ImageRenderer はビジネスロジック層が利用する統合窓口です。
type ImageRenderer interface {
	// Execute は1件の要求に対して必ず1つの結果を返します。
	Execute(ctx context.Context, req domain.GenerationRequest) domain.Outcome
	// ExecuteWith は呼び出し単位の認証情報や進捗通知を指定して実行します。
	ExecuteWith(ctx context.Context, req domain.GenerationRequest, opts ExecuteOptions) domain.Outcome
}

// SleepFunc はバックオフの待機を行います。ctx がキャンセルされたらエラーを返します。
type SleepFunc func(ctx context.Context, d time.Duration) error

// ProgressFunc は再試行待ちに入るたびに呼ばれます。
type ProgressFunc func(p Progress)
