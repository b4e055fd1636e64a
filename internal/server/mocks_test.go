package server

import (
	"context"
	"sync"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

// fakeRenderer は generator.ImageRenderer を実装するのだ。
type fakeRenderer struct {
	mu       sync.Mutex
	outcome  domain.Outcome
	progress []generator.Progress
	calls    int
	lastReq  domain.GenerationRequest
	lastOpts generator.ExecuteOptions
}

func (f *fakeRenderer) Execute(ctx context.Context, req domain.GenerationRequest) domain.Outcome {
	return f.ExecuteWith(ctx, req, generator.ExecuteOptions{})
}

func (f *fakeRenderer) ExecuteWith(ctx context.Context, req domain.GenerationRequest, opts generator.ExecuteOptions) domain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	f.lastOpts = opts
	if opts.Progress != nil {
		for _, p := range f.progress {
			opts.Progress(p)
		}
	}
	return f.outcome
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")
