package generator

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は ContentGenerator のテスト用モックなのだ。
// responses を先頭から順に返し、尽きたら最後の要素を返し続けるのだ。
type mockAIClient struct {
	mu        sync.Mutex
	responses []mockResult
	calls     int
	lastModel string
	lastParts []*genai.Part
	lastOpts  gemini.GenerateOptions
}

type mockResult struct {
	resp *gemini.Response
	err  error
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastModel = model
	m.lastParts = parts
	m.lastOpts = opts

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	r := m.responses[idx]
	return r.resp, r.err
}

func (m *mockAIClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockAIClient) factory() ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		return m, nil
	}
}

type mockCredentials struct {
	key string
	err error
}

func (m mockCredentials) APIKey(ctx context.Context) (string, error) {
	return m.key, m.err
}

// recordingSleeper は実際には待たずに待機時間だけ記録するのだ。
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
	err   error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return s.err
}

// --- Response builders ---

func imageResponse(mime string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mime, Data: data}}},
				},
			}},
		},
	}
}

func textResponse(text string) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
			}},
		},
	}
}

func finishResponse(reason genai.FinishReason) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: reason}},
		},
	}
}

func rateLimitErr() error {
	return genai.APIError{Code: 429, Message: "Resource has been exhausted", Status: "RESOURCE_EXHAUSTED"}
}
