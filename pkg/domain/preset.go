package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// hdCore は全プリセット共通の画質指定です。
const hdCore = "ULTRA-HD 8K RESOLUTION, HYPER-REALISTIC, MACRO FABRIC TEXTURE, PROFESSIONAL STUDIO LIGHTING, NO NOISE, SHARP EDGES."

const (
	PresetMannequinRemover = "mannequin-remover"
	PresetStreetwear       = "koko-ai"
	PresetAvantGarde       = "gamis-ai"
)

// Preset はスタジオで選べるツールと、その既定プロンプトを保持します。
type Preset struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Badge       string      `json:"badge,omitempty"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
	Prompt      string      `json:"prompt"`
	// Transparent は透過PNGを期待するツールかどうかです（結果表示の背景切り替え用）。
	Transparent bool `json:"transparent"`
}

var ghostMannequinPrompt = fmt.Sprintf(`PROFESSIONAL GHOST MANNEQUIN ISOLATION: %s
OBJECTIVE: Create a high-fidelity PNG of the garment with 100%% TRANSPARENT BACKGROUND (Alpha Channel).
INSTRUCTIONS: Cleanly isolate the clothing from the human model. Remove all visible skin, including head, neck, hands, arms, legs, and feet.
GHOST EFFECT: Render the interior back-neck and sleeve openings to make the garment look 3D and hollow.
CRITICAL: Absolutely no white background. The output must be a transparent PNG. No human parts remaining.`, hdCore)

var editorialPrompt = fmt.Sprintf(`EDITORIAL FASHION PHOTOGRAPHY: %s
SUBJECT: A high-end real human model wearing the garment. Perfect drape, natural posing, realistic skin pores, cinematic fashion studio lighting, 9:16 aspect ratio.`, hdCore)

var presets = []Preset{
	{
		ID:          PresetMannequinRemover,
		Title:       "ASSET ISOLATION",
		Description: "Surgical extraction of garments with perfect 8K Alpha transparency. Zero artifacts.",
		Category:    "SURGICAL",
		Badge:       "8K ULTIMATE",
		AspectRatio: DefaultAspectRatio,
		Prompt:      ghostMannequinPrompt,
		Transparent: true,
	},
	{
		ID:          PresetStreetwear,
		Title:       "STREETWEAR FX",
		Description: "High-fidelity urban fashion rendering. Studio luxury lighting and macro fabric precision.",
		Category:    "PRIA",
		Badge:       "PREMIUM",
		AspectRatio: DefaultAspectRatio,
		Prompt:      editorialPrompt,
	},
	{
		ID:          PresetAvantGarde,
		Title:       "AVANT-GARDE",
		Description: "Vogue-grade couture production. Realistic draping and professional designer poses.",
		Category:    "WANITA",
		Badge:       "LUXURY",
		AspectRatio: DefaultAspectRatio,
		Prompt:      editorialPrompt,
	},
}

// Presets は登録済みプリセットのコピーを返します。
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetByID は ID に一致するプリセットを返します。
func PresetByID(id string) (Preset, bool) {
	return lo.Find(presets, func(p Preset) bool {
		return p.ID == id
	})
}
