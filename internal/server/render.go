package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ryantrega99/moda-fashion-ai/internal/i18n"
	"github.com/ryantrega99/moda-fashion-ai/pkg/adapters"
	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/ryantrega99/moda-fashion-ai/pkg/studio"
	"github.com/samber/lo"
)

// CategoryInvalidRequest はエンドポイントを呼ぶ前に入力が不正だったことを示します。
const CategoryInvalidRequest = "INVALID_REQUEST"

type toolResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Badge         string `json:"badge,omitempty"`
	AspectRatio   string `json:"aspect_ratio"`
	Transparent   bool   `json:"transparent"`
	DefaultPrompt string `json:"default_prompt"`
}

type errorResponse struct {
	Category  string `json:"category"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id"`
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	tools := lo.Map(domain.Presets(), func(p domain.Preset, _ int) toolResponse {
		return toolResponse{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			Category:      p.Category,
			Badge:         p.Badge,
			AspectRatio:   string(p.AspectRatio),
			Transparent:   p.Transparent,
			DefaultPrompt: p.Prompt,
		}
	})
	s.json(w, http.StatusOK, map[string]any{"tools": tools})
}

// render は multipart の image と tool を受け取り、1回レンダリングします。
// 成功時は画像そのものを、失敗時は分類付きの JSON を返します。
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := i18n.New(r.Header.Get("Accept-Language"), s.locale)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseMultipartForm(s.maxBodyBytes); err != nil {
		s.invalid(w, r, "multipart/form-data を解析できませんでした", err)
		return
	}

	preset, ok := domain.PresetByID(r.FormValue("tool"))
	if !ok {
		s.invalid(w, r, "未知のツールです", fmt.Errorf("tool=%q", r.FormValue("tool")))
		return
	}

	data, err := readFormFile(r, "image")
	if err != nil {
		s.invalid(w, r, "画像を読み込めませんでした", err)
		return
	}

	session, err := studio.NewSession(s.renderer, preset)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	if err := session.Upload(data, ""); err != nil {
		s.invalid(w, r, "画像が不正です", err)
		return
	}
	if p := r.FormValue("prompt"); strings.TrimSpace(p) != "" {
		session.SetPrompt(p)
	}
	if a := r.FormValue("aspect_ratio"); a != "" {
		aspect, err := domain.ParseAspectRatio(a)
		if err == nil {
			err = session.SetAspectRatio(aspect)
		}
		if err != nil {
			s.invalid(w, r, "アスペクト比が不正です", err)
			return
		}
	}

	opts := generator.ExecuteOptions{Progress: s.metrics.ProgressFunc(preset.ID, nil)}
	if key := strings.TrimSpace(r.Header.Get("X-Api-Key")); key != "" {
		opts.Credentials = adapters.StaticCredentials(key)
	}

	start := s.now()
	outcome, err := session.Render(ctx, opts)
	if err != nil {
		s.invalid(w, r, "レンダリングを開始できませんでした", err)
		return
	}
	s.metrics.ObserveOutcome(preset.ID, outcome, s.now().Sub(start))

	switch o := outcome.(type) {
	case *domain.Success:
		w.Header().Set("Content-Type", o.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", studio.DownloadName(s.now(), o.MimeType)))
		w.Header().Set("X-Used-Seed", strconv.FormatInt(o.UsedSeed, 10))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(o.Data)
	case *domain.Failure:
		s.logger.Warn().
			Str("request_id", RequestIDFromContext(ctx)).
			Str("tool", preset.ID).
			Str("category", string(o.Category)).
			Msg(o.Message)
		s.json(w, StatusFor(o), errorResponse{
			Category:  string(o.Category),
			Message:   loc.Failure(o),
			Detail:    o.Message,
			RequestID: RequestIDFromContext(ctx),
		})
	}
}

// StatusFor は失敗カテゴリを HTTP ステータスに対応付けます。
func StatusFor(f *domain.Failure) int {
	switch f.Category {
	case domain.CategoryRateLimited:
		return http.StatusTooManyRequests
	case domain.CategoryAuthInvalid:
		if errors.Is(f, generator.ErrCredentialNotFound) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case domain.CategoryContentBlocked:
		return http.StatusUnprocessableEntity
	case domain.CategoryEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) invalid(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Debug().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg(msg)
	s.json(w, http.StatusBadRequest, errorResponse{
		Category:  CategoryInvalidRequest,
		Message:   msg,
		Detail:    err.Error(),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (s *Server) internal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("internal error")
	s.json(w, http.StatusInternalServerError, errorResponse{
		Category:  string(domain.CategoryUnknown),
		Message:   "internal error",
		RequestID: RequestIDFromContext(r.Context()),
	})
}
