package i18n

import "github.com/ryantrega99/moda-fashion-ai/pkg/domain"

type message struct {
	title  string
	detail string
}

// catalog[言語][カテゴリ]
var catalog = map[string]map[domain.ErrorCategory]message{
	"id": {
		domain.CategoryRateLimited:    {"TERLALU BANYAK PERMINTAAN", "Tunggu sebentar lalu coba lagi (Rate Limit)."},
		domain.CategoryAuthInvalid:    {"AKSES DITOLAK", "Periksa apakah API Key sudah benar dan memiliki akses ke model Gemini 2.5 Flash Image."},
		domain.CategoryContentBlocked: {"KEAMANAN", "Konten atau instruksi dianggap sensitif oleh AI. Coba ubah foto atau instruksi."},
		domain.CategoryEmptyResponse:  {"GAGAL RENDER", "Engine tidak menghasilkan gambar. Coba gunakan foto dengan pencahayaan yang lebih baik."},
		domain.CategoryUnknown:        {"GAGAL RENDER", "Pastikan koneksi internet stabil."},
	},
	"en": {
		domain.CategoryRateLimited:    {"TOO MANY REQUESTS", "Wait a moment and try again (rate limit)."},
		domain.CategoryAuthInvalid:    {"ACCESS DENIED", "Check that the API key is correct and has access to the Gemini 2.5 Flash Image model."},
		domain.CategoryContentBlocked: {"SAFETY", "The photo or instructions were flagged as sensitive. Try a different photo or prompt."},
		domain.CategoryEmptyResponse:  {"RENDER FAILED", "The engine returned no image. Try a photo with better lighting."},
		domain.CategoryUnknown:        {"RENDER FAILED", "Make sure your internet connection is stable."},
	},
	"ja": {
		domain.CategoryRateLimited:    {"リクエストが多すぎます", "しばらく待ってから再度お試しください（レート制限）。"},
		domain.CategoryAuthInvalid:    {"アクセスが拒否されました", "APIキーが正しく、Gemini 2.5 Flash Image モデルへのアクセス権があるか確認してください。"},
		domain.CategoryContentBlocked: {"安全フィルター", "写真または指示が不適切と判定されました。別の写真か指示をお試しください。"},
		domain.CategoryEmptyResponse:  {"レンダリング失敗", "画像が生成されませんでした。明るい写真でお試しください。"},
		domain.CategoryUnknown:        {"レンダリング失敗", "インターネット接続を確認してください。"},
	},
}

var alternateKeyHints = map[string]string{
	"id": "Gunakan API Key lain untuk melanjutkan.",
	"en": "Use a different API key to continue.",
	"ja": "別のAPIキーを使うと続行できます。",
}
