package studio

import (
	"context"
	"sync"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

// mockRenderer は generator.ImageRenderer を実装するのだ。
// block が設定されていれば、閉じられるまで結果を返さないのだ。
type mockRenderer struct {
	mu      sync.Mutex
	outcome domain.Outcome
	started chan struct{}
	block   chan struct{}
	calls   int
	lastReq domain.GenerationRequest
}

func (m *mockRenderer) Execute(ctx context.Context, req domain.GenerationRequest) domain.Outcome {
	return m.ExecuteWith(ctx, req, generator.ExecuteOptions{})
}

func (m *mockRenderer) ExecuteWith(ctx context.Context, req domain.GenerationRequest, opts generator.ExecuteOptions) domain.Outcome {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	m.mu.Unlock()

	if m.started != nil {
		close(m.started)
	}
	if m.block != nil {
		<-m.block
	}
	return m.outcome
}

func (m *mockRenderer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")
