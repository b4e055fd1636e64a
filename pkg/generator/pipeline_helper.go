package generator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// buildParts は入力画像、プロンプトの順でパーツを組み立てます。
func buildParts(req domain.GenerationRequest) []*genai.Part {
	return []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: req.MimeType(), Data: req.Image()}},
		{Text: req.Prompt()},
	}
}

type responseKind int

const (
	responseEmpty     responseKind = iota // 候補なし
	responseBlocked                       // 安全フィルター等で差し止め
	responseImage                         // 画像あり
	responseText                          // 画像なし・テキストのみ
	responseNoContent                     // 画像もテキストもなし
)

// classifiedResponse はレスポンスを1度だけ解析した結果です。
type classifiedResponse struct {
	kind   responseKind
	image  *genai.Blob
	text   string
	reason string
}

var blockedFinishReasons = map[genai.FinishReason]struct{}{
	genai.FinishReasonSafety:                 {},
	genai.FinishReasonProhibitedContent:      {},
	genai.FinishReasonBlocklist:              {},
	genai.FinishReasonSPII:                   {},
	genai.FinishReasonImageSafety:            {},
	genai.FinishReasonImageProhibitedContent: {},
}

func classifyResponse(resp *gemini.Response) classifiedResponse {
	if resp == nil || resp.RawResponse == nil {
		return classifiedResponse{kind: responseEmpty}
	}
	raw := resp.RawResponse

	if len(raw.Candidates) == 0 || raw.Candidates[0] == nil {
		// プロンプト自体がブロックされた場合は候補が返らない
		if fb := raw.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
			return classifiedResponse{kind: responseBlocked, reason: string(fb.BlockReason)}
		}
		return classifiedResponse{kind: responseEmpty}
	}

	// 現在の仕様では、最初の候補 (Candidate) のみを利用する。
	candidate := raw.Candidates[0]
	if _, blocked := blockedFinishReasons[candidate.FinishReason]; blocked {
		return classifiedResponse{kind: responseBlocked, reason: string(candidate.FinishReason)}
	}

	var texts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return classifiedResponse{kind: responseImage, image: part.InlineData}
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) > 0 {
		return classifiedResponse{kind: responseText, text: strings.Join(texts, " ")}
	}
	return classifiedResponse{kind: responseNoContent, reason: string(candidate.FinishReason)}
}

// parseToOutcome はレスポンスを Success か Failure に変換します。
func parseToOutcome(resp *gemini.Response, seed int64) domain.Outcome {
	c := classifyResponse(resp)
	switch c.kind {
	case responseImage:
		mimeType := c.image.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(c.image.Data)
		}
		return &domain.Success{Data: c.image.Data, MimeType: mimeType, UsedSeed: seed}
	case responseBlocked:
		return domain.NewFailure(domain.CategoryContentBlocked,
			fmt.Sprintf("安全フィルターにより生成がブロックされました (理由: %s)", c.reason), nil)
	case responseText:
		return domain.NewFailure(domain.CategoryEmptyResponse,
			fmt.Sprintf("画像の代わりにテキストが返されました: %q", utils.Truncate(c.text, maxResponseTextRunes)), nil)
	case responseNoContent:
		msg := "画像データが見つかりませんでした"
		if c.reason != "" {
			msg += fmt.Sprintf(" (FinishReason: %s)", c.reason)
		}
		return domain.NewFailure(domain.CategoryEmptyResponse, msg, nil)
	default:
		return domain.NewFailure(domain.CategoryEmptyResponse, "Geminiからの有効な応答がありませんでした", nil)
	}
}

// classifyError はエンドポイントのエラーをカテゴリに分類します。
func classifyError(err error) domain.ErrorCategory {
	if err == nil {
		return domain.CategoryUnknown
	}
	if errors.Is(err, ErrCredentialNotFound) {
		return domain.CategoryAuthInvalid
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if c, ok := classifyAPIError(apiErr); ok {
			return c
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		if c, ok := classifyAPIError(*apiErrPtr); ok {
			return c
		}
	}

	// SDK を経由しないエラーはメッセージから判定する
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return domain.CategoryRateLimited
	case strings.Contains(msg, "403") || strings.Contains(msg, "PERMISSION_DENIED") ||
		strings.Contains(strings.ToLower(msg), "api key not valid"):
		return domain.CategoryAuthInvalid
	}
	return domain.CategoryUnknown
}

func classifyAPIError(e genai.APIError) (domain.ErrorCategory, bool) {
	switch {
	case e.Code == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED":
		return domain.CategoryRateLimited, true
	case e.Code == http.StatusForbidden || e.Code == http.StatusUnauthorized ||
		e.Status == "PERMISSION_DENIED" || e.Status == "UNAUTHENTICATED":
		return domain.CategoryAuthInvalid, true
	case e.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(e.Message), "api key not valid"):
		return domain.CategoryAuthInvalid, true
	}
	return "", false
}

// failureFromError はエラー分類から Failure を組み立てます。calls は呼び出し回数です。
func failureFromError(category domain.ErrorCategory, err error, calls int) *domain.Failure {
	detail := utils.Truncate(err.Error(), maxErrorRunes)
	switch category {
	case domain.CategoryRateLimited:
		return domain.NewFailure(category,
			fmt.Sprintf("レート制限により再試行の上限に達しました (呼び出し回数: %d)", calls), err)
	case domain.CategoryAuthInvalid:
		return domain.NewFailure(category, "APIキーが無効か、モデルへのアクセス権がありません: "+detail, err)
	default:
		return domain.NewFailure(domain.CategoryUnknown, "画像生成に失敗しました: "+detail, err)
	}
}
