package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidDataURL は data URL の形式が不正であることを示します。
var ErrInvalidDataURL = errors.New("不正なdata URLです")

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// DetectMimeType は内容から MIME タイプを判定します。
func DetectMimeType(data []byte) string {
	// "image/png; charset=..." のような付加情報は付かないが念のため落とす
	mime, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return strings.TrimSpace(mime)
}

// IsImage は data が画像として判定できるかを返します。
func IsImage(data []byte) bool {
	return strings.HasPrefix(DetectMimeType(data), "image/")
}

// ExtensionFor は MIME タイプに対応する拡張子（ドットなし）を返します。未知の場合は png です。
func ExtensionFor(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return "png"
}

// ParseDataURL は "data:<mime>;base64,<payload>" を分解します。
func ParseDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: base64 以外のエンコードには対応していません", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if mimeType == "" {
		mimeType = DetectMimeType(data)
	}
	return data, mimeType, nil
}

// EncodeDataURL は data を data URL 形式に変換します。
func EncodeDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
