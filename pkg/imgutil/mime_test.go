package imgutil

import (
	"errors"
	"testing"
)

func TestDataURL(t *testing.T) {
	pngData := createDummyImageData(t, "png")

	t.Run("エンコードしたものをそのまま読み戻せること", func(t *testing.T) {
		data, mime, err := ParseDataURL(EncodeDataURL(pngData, "image/png"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "image/png" || len(data) != len(pngData) {
			t.Errorf("got %s (%d bytes)", mime, len(data))
		}
	})

	t.Run("MIMEが省略されていれば内容から判定すること", func(t *testing.T) {
		s := EncodeDataURL(pngData, "")
		_, mime, err := ParseDataURL(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "image/png" {
			t.Errorf("expected image/png, got %s", mime)
		}
	})

	tests := []struct {
		name  string
		input string
	}{
		{"data: で始まらない", "image/png;base64,AAAA"},
		{"カンマがない", "data:image/png;base64"},
		{"base64 ではない", "data:text/plain,hello"},
		{"base64 が壊れている", "data:image/png;base64,@@@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURL(tt.input)
			if !errors.Is(err, ErrInvalidDataURL) {
				t.Errorf("expected ErrInvalidDataURL, got %v", err)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpg",
		"IMAGE/WEBP": "webp",
		"":           "png",
	}
	for in, want := range cases {
		if got := ExtensionFor(in); got != want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage(createDummyImageData(t, "jpeg")) {
		t.Error("jpeg should be detected as image")
	}
	if IsImage([]byte("plain text")) {
		t.Error("text should not be detected as image")
	}
}
