package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultQuality は再圧縮時の JPEG 品質です。
	DefaultQuality = 85
	// MaxUploadBytes を超える入力は送信前に JPEG へ再圧縮します。
	MaxUploadBytes = 4 << 20
)

// CompressToJPEG は画像データ（PNG, GIF, WebP, JPEG等）をJPEG形式に圧縮します。
// 透過部分は白で塗りつぶします。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	// JPEG はアルファを持たないため白背景に合成する
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// ShrinkIfLarge は data が limit を超える場合だけ JPEG に再圧縮します。
// 戻り値は送信すべきデータとその MIME タイプです。
func ShrinkIfLarge(data []byte, mimeType string, limit int) ([]byte, string, error) {
	if len(data) <= limit {
		return data, mimeType, nil
	}
	out, err := CompressToJPEG(data, DefaultQuality)
	if err != nil {
		return nil, "", err
	}
	return out, "image/jpeg", nil
}
