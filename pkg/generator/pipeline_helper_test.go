package generator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorCategory
	}{
		{"APIError 429", genai.APIError{Code: 429}, domain.CategoryRateLimited},
		{"APIError RESOURCE_EXHAUSTED", genai.APIError{Status: "RESOURCE_EXHAUSTED"}, domain.CategoryRateLimited},
		{"ラップされた APIError 429", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), domain.CategoryRateLimited},
		{"ポインタの APIError 429", &genai.APIError{Code: 429}, domain.CategoryRateLimited},
		{"APIError 403", genai.APIError{Code: 403}, domain.CategoryAuthInvalid},
		{"APIError 401", genai.APIError{Code: 401, Status: "UNAUTHENTICATED"}, domain.CategoryAuthInvalid},
		{"APIError 400 無効なキー", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key."}, domain.CategoryAuthInvalid},
		{"APIError 400 その他", genai.APIError{Code: 400, Message: "invalid argument"}, domain.CategoryUnknown},
		{"APIError 500", genai.APIError{Code: 500, Message: "internal"}, domain.CategoryUnknown},
		{"文字列の429", errors.New("googleapi: Error 429: quota exceeded"), domain.CategoryRateLimited},
		{"文字列の PERMISSION_DENIED", errors.New("rpc error: PERMISSION_DENIED"), domain.CategoryAuthInvalid},
		{"キー未設定", fmt.Errorf("load: %w", ErrCredentialNotFound), domain.CategoryAuthInvalid},
		{"ネットワークエラー", errors.New("dial tcp: i/o timeout"), domain.CategoryUnknown},
		{"nil", nil, domain.CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestClassifyResponse(t *testing.T) {
	t.Run("nil レスポンスは empty なのだ", func(t *testing.T) {
		assert.Equal(t, responseEmpty, classifyResponse(nil).kind)
		assert.Equal(t, responseEmpty, classifyResponse(&gemini.Response{}).kind)
	})

	t.Run("候補が無くプロンプトがブロックされていれば blocked なのだ", func(t *testing.T) {
		resp := &gemini.Response{RawResponse: &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		}}
		c := classifyResponse(resp)
		assert.Equal(t, responseBlocked, c.kind)
		assert.Equal(t, string(genai.BlockedReasonSafety), c.reason)
	})

	t.Run("画像パーツはテキストより優先されるのだ", func(t *testing.T) {
		resp := &gemini.Response{RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("img")}},
			}}}},
		}}
		c := classifyResponse(resp)
		assert.Equal(t, responseImage, c.kind)
		assert.Equal(t, []byte("img"), c.image.Data)
	})

	t.Run("2番目以降の候補は見ないのだ", func(t *testing.T) {
		resp := &gemini.Response{RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonStop},
				{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("img")}}}}},
			},
		}}
		assert.Equal(t, responseNoContent, classifyResponse(resp).kind)
	})

	for _, reason := range []genai.FinishReason{
		genai.FinishReasonSafety,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonImageSafety,
	} {
		t.Run("FinishReason "+string(reason)+" は blocked なのだ", func(t *testing.T) {
			assert.Equal(t, responseBlocked, classifyResponse(finishResponse(reason)).kind)
		})
	}
}

func TestParseToOutcome(t *testing.T) {
	t.Run("MIMEタイプが無ければ内容から判定するのだ", func(t *testing.T) {
		outcome := parseToOutcome(imageResponse("", validPng), 42)
		success, ok := outcome.(*domain.Success)
		if assert.True(t, ok) {
			assert.Equal(t, "image/png", success.MimeType)
			assert.Equal(t, int64(42), success.UsedSeed)
		}
	})

	t.Run("ブロック理由がメッセージに含まれるのだ", func(t *testing.T) {
		failure, ok := parseToOutcome(finishResponse(genai.FinishReasonSafety), 0).(*domain.Failure)
		if assert.True(t, ok) {
			assert.Equal(t, domain.CategoryContentBlocked, failure.Category)
			assert.Contains(t, failure.Message, "SAFETY")
		}
	})
}

func TestFailureFromError_TruncatesDetail(t *testing.T) {
	long := make([]rune, 500)
	for i := range long {
		long[i] = 'x'
	}
	f := failureFromError(domain.CategoryUnknown, errors.New(string(long)), 1)
	assert.LessOrEqual(t, len([]rune(f.Message)), maxErrorRunes+40)
	assert.Contains(t, f.Message, "...")
}
