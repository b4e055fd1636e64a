package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecorder_ObserveOutcome(t *testing.T) {
	r := New()

	r.ObserveOutcome("koko-ai", &domain.Success{}, time.Second)
	r.ObserveOutcome("koko-ai", domain.NewFailure(domain.CategoryRateLimited, "x", nil), 14*time.Second)
	r.ObserveOutcome("koko-ai", domain.NewFailure(domain.CategoryRateLimited, "x", nil), 14*time.Second)

	body := scrape(t, r)
	assert.Contains(t, body, `moda_render_outcomes_total{result="SUCCESS",tool="koko-ai"} 1`)
	assert.Contains(t, body, `moda_render_outcomes_total{result="RATE_LIMITED",tool="koko-ai"} 2`)
	assert.Contains(t, body, `moda_render_duration_seconds_count{tool="koko-ai"} 3`)
}

func TestRecorder_ProgressFunc(t *testing.T) {
	r := New()

	var forwarded int
	progress := r.ProgressFunc("gamis-ai", func(generator.Progress) { forwarded++ })
	progress(generator.Progress{Attempt: 1, MaxAttempts: 3})
	progress(generator.Progress{Attempt: 2, MaxAttempts: 3})
	r.ProgressFunc("gamis-ai", nil)(generator.Progress{})

	assert.Equal(t, 2, forwarded)
	assert.Contains(t, scrape(t, r), `moda_render_retries_total{tool="gamis-ai"} 3`)
}
