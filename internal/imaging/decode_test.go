package imaging

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"testing"
)

func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 100, A: 255})
		}
	}
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeDataURL(t *testing.T) {
	payload := pngDataURL(t, 8, 6)

	img, err := DecodeDataURL(payload)
	if err != nil {
		t.Fatalf("DecodeDataURL returned error: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestDecodeDataURLWithoutPrefix(t *testing.T) {
	full := pngDataURL(t, 4, 4)
	bare := full[len("data:image/png;base64,"):]

	img, err := DecodeDataURL(bare)
	if err != nil {
		t.Fatalf("DecodeDataURL returned error: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestDecodeDataURLErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not base64", payload: "data:image/png;base64,@@not-base64@@"},
		{name: "base64 but not an image", payload: base64.StdEncoding.EncodeToString([]byte("hello world"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDataURL(tt.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeDataURLEmpty(t *testing.T) {
	for _, payload := range []string{"", "data:image/png;base64,", "   "} {
		if _, err := DecodeDataURL(payload); !errors.Is(err, ErrEmptyPayload) {
			t.Fatalf("DecodeDataURL(%q) = %v, want ErrEmptyPayload", payload, err)
		}
	}
}

func TestCrop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	cropped := Crop(img, image.Rect(5, 5, 15, 12))
	if cropped.Bounds().Dx() != 10 || cropped.Bounds().Dy() != 7 {
		t.Fatalf("unexpected crop bounds: %v", cropped.Bounds())
	}
}

func TestCropClampsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	cropped := Crop(img, image.Rect(5, 5, 50, 50))
	if cropped.Bounds().Dx() != 5 || cropped.Bounds().Dy() != 5 {
		t.Fatalf("unexpected crop bounds: %v", cropped.Bounds())
	}

	empty := Crop(img, image.Rect(30, 30, 40, 40))
	if !empty.Bounds().Empty() {
		t.Fatalf("expected empty crop, got %v", empty.Bounds())
	}
}
