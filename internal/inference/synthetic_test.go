package inference

import (
	"context"
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"

	"moodtrack/internal/mood"
)

func flatImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func imageWithBlob(width, height int, blob image.Rectangle) *image.RGBA {
	img := flatImage(width, height, color.RGBA{R: 10, G: 10, B: 20, A: 255})
	for y := blob.Min.Y; y < blob.Max.Y; y++ {
		for x := blob.Min.X; x < blob.Max.X; x++ {
			img.Set(x, y, color.RGBA{R: 250, G: 240, B: 230, A: 255})
		}
	}
	return img
}

func TestSyntheticDetectNoFaceOnFlatImage(t *testing.T) {
	s := NewSynthetic()
	faces, err := s.DetectFaces(context.Background(), flatImage(64, 64, color.Black))
	if err != nil {
		t.Fatalf("DetectFaces returned error: %v", err)
	}
	if len(faces) != 0 {
		t.Fatalf("expected no faces, got %v", faces)
	}
}

func TestSyntheticDetectBrightBlob(t *testing.T) {
	blob := image.Rect(20, 16, 44, 48)
	s := NewSynthetic()

	faces, err := s.DetectFaces(context.Background(), imageWithBlob(64, 64, blob))
	if err != nil {
		t.Fatalf("DetectFaces returned error: %v", err)
	}
	if len(faces) != 1 {
		t.Fatalf("expected one face, got %v", faces)
	}

	got := faces[0].Rect()
	if got != blob {
		t.Fatalf("region = %v, want %v", got, blob)
	}
}

func TestSyntheticDetectIgnoresTinyBlob(t *testing.T) {
	// 3x3 bright pixels in a 64x64 frame is below the coverage floor.
	blob := image.Rect(30, 30, 33, 33)
	s := NewSynthetic()

	faces, err := s.DetectFaces(context.Background(), imageWithBlob(64, 64, blob))
	if err != nil {
		t.Fatalf("DetectFaces returned error: %v", err)
	}
	if len(faces) != 0 {
		t.Fatalf("expected no faces, got %v", faces)
	}
}

func TestSyntheticPredictEmotionDistribution(t *testing.T) {
	s := NewSynthetic()
	face := imageWithBlob(48, 48, image.Rect(8, 8, 40, 40))

	emotions, err := s.PredictEmotion(context.Background(), face)
	if err != nil {
		t.Fatalf("PredictEmotion returned error: %v", err)
	}
	if len(emotions) != len(mood.Labels) {
		t.Fatalf("expected %d labels, got %d", len(mood.Labels), len(emotions))
	}

	var total float64
	for label, p := range emotions {
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range for %q: %f", label, p)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("distribution sums to %f, want 1", total)
	}
}

func TestSyntheticPredictEmotionDeterministic(t *testing.T) {
	s := NewSynthetic()
	face := imageWithBlob(48, 48, image.Rect(8, 8, 40, 40))

	first, err := s.PredictEmotion(context.Background(), face)
	if err != nil {
		t.Fatalf("PredictEmotion returned error: %v", err)
	}
	second, err := s.PredictEmotion(context.Background(), face)
	if err != nil {
		t.Fatalf("PredictEmotion returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("PredictEmotion not deterministic:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestSyntheticHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSynthetic()
	if _, err := s.DetectFaces(ctx, flatImage(8, 8, color.Black)); err == nil {
		t.Fatal("expected context error from DetectFaces")
	}
	if _, err := s.PredictEmotion(ctx, flatImage(8, 8, color.Black)); err == nil {
		t.Fatal("expected context error from PredictEmotion")
	}
}
