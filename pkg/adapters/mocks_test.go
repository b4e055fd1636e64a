package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockFetcher は Fetcher を実装します。
type mockFetcher struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
	calls     int
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.fetchFunc(ctx, url)
}

// mockReader は remoteio.InputReader を実装します。
type mockReader struct {
	files  map[string][]byte
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	data, ok := m.files[uri]
	if !ok {
		return nil, fmt.Errorf("not found: %s", uri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for name := range m.files {
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}

// redirectingFetcher は net/http の既定動作でリダイレクトを追う Fetcher なのだ。
type redirectingFetcher struct {
	client *http.Client
}

func (f *redirectingFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// mockModels は contentAPI を実装し、最後の呼び出し内容を記録するのだ。
type mockModels struct {
	resp *genai.GenerateContentResponse
	err  error

	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	return m.resp, m.err
}

type failingCredentials struct{}

func (failingCredentials) APIKey(ctx context.Context) (string, error) {
	return "", errors.New("keychain locked")
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")
