package i18n

import (
	"strings"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"golang.org/x/text/language"
)

// DefaultLanguage は一致する言語が無い場合に使う言語です。
const DefaultLanguage = "id"

var (
	supported = []language.Tag{language.Indonesian, language.English, language.Japanese}
	codes     = []string{"id", "en", "ja"}
	matcher   = language.NewMatcher(supported)
)

// Localizer は失敗カテゴリを利用者向けの文言に変換します。
type Localizer struct {
	lang string
}

// New は候補の言語タグ（"en-US" や Accept-Language の値）から最も近い対応言語を選びます。
// 先頭の候補ほど優先されます。
func New(preferred ...string) Localizer {
	var tags []language.Tag
	for _, p := range preferred {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Localizer{lang: DefaultLanguage}
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Localizer{lang: DefaultLanguage}
	}
	return Localizer{lang: codes[idx]}
}

// Language は選ばれた言語コードを返します。
func (l Localizer) Language() string {
	if l.lang == "" {
		return DefaultLanguage
	}
	return l.lang
}

// Title はカテゴリの見出しを返します。
func (l Localizer) Title(c domain.ErrorCategory) string {
	return l.lookup(c).title
}

// Message は "見出し: 説明" 形式の文言を返します。
// 別のキーで解決できるカテゴリには案内を付け加えます。
func (l Localizer) Message(c domain.ErrorCategory) string {
	m := l.lookup(c)
	msg := m.title + ": " + m.detail
	if NeedsAlternateKey(c) {
		msg += " " + alternateKeyHints[l.Language()]
	}
	return msg
}

// Failure は Failure を利用者向けの文言に変換します。
func (l Localizer) Failure(f *domain.Failure) string {
	if f == nil {
		return ""
	}
	return l.Message(f.Category)
}

func (l Localizer) lookup(c domain.ErrorCategory) message {
	msgs := catalog[l.Language()]
	if m, ok := msgs[c]; ok {
		return m
	}
	return msgs[domain.CategoryUnknown]
}

// NeedsAlternateKey は別の API キーを入力すれば解決し得るカテゴリかどうかを返します。
func NeedsAlternateKey(c domain.ErrorCategory) bool {
	return c == domain.CategoryRateLimited || c == domain.CategoryAuthInvalid
}
