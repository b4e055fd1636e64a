package generator

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultModel は画像出力に対応した Gemini モデルです。
	DefaultModel = "gemini-2.5-flash-image"
	// DefaultMaxRetries はレート制限時の再試行回数です（初回と合わせて最大4回呼び出します）。
	DefaultMaxRetries = 3
	// DefaultBaseDelay はバックオフの基準待機時間です。
	DefaultBaseDelay = 2 * time.Second
	// MaxRetriesLimit は設定できる再試行回数の上限です。
	MaxRetriesLimit = 10
	// MaxBackoffDelay は1回の待機時間の上限です。
	MaxBackoffDelay = 10 * time.Minute

	maxResponseTextRunes = 100
	maxErrorRunes        = 200
)

// ErrCredentialNotFound は APIキーが設定されていないことを示します。
var ErrCredentialNotFound = errors.New("APIキーが見つかりません")

// PipelineConfig は GenerationPipeline の設定です。ゼロ値の項目は既定値になります。
type PipelineConfig struct {
	Model      string
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      SleepFunc
}

// ExecuteOptions は1回の実行に固有の設定です。
type ExecuteOptions struct {
	// Credentials が nil ならパイプライン生成時のものを使います。
	Credentials CredentialProvider
	Progress    ProgressFunc
}

// Progress は再試行待ちの状況です。
type Progress struct {
	Attempt     int // これから行う再試行の番号 (1始まり)
	MaxAttempts int
	Wait        time.Duration
}

// Message は画面表示用の短い文言を返します。
func (p Progress) Message() string {
	return fmt.Sprintf("retrying in %s, attempt %d/%d", p.Wait.Round(time.Second), p.Attempt, p.MaxAttempts)
}

// retryState は1回の Execute の間だけ存在する再試行カウンタです。
type retryState struct {
	attempt     int
	maxAttempts int
}

func (s *retryState) canRetry() bool { return s.attempt < s.maxAttempts }
func (s *retryState) next()          { s.attempt++ }

// calls はこれまでのエンドポイント呼び出し回数です。
func (s *retryState) calls() int { return s.attempt + 1 }
