package inference

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"

	"moodtrack/internal/mood"
)

// Luminance at or above this value (0-255) counts as part of a face blob.
const brightThreshold = 200

// Synthetic is a deterministic local stand-in for the model sidecar. Detection
// looks for a bright blob against a darker background; classification derives
// a pseudo-distribution from a hash of the face pixels. The same image always
// yields the same result, which keeps the worker operational and testable when
// no inference backend is configured.
type Synthetic struct{}

func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// DetectFaces reports at most one region: the bounding box of bright pixels,
// provided they cover enough of the frame to plausibly be a face.
func (s *Synthetic) DetectFaces(ctx context.Context, img image.Image) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if luminance(img, x, y) < brightThreshold {
				continue
			}
			count++
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if count < minFacePixels(bounds) {
		return nil, nil
	}
	return []Region{{
		X: minX - bounds.Min.X,
		Y: minY - bounds.Min.Y,
		W: maxX - minX + 1,
		H: maxY - minY + 1,
	}}, nil
}

// PredictEmotion derives a deterministic distribution over the canonical
// labels from a hash of the face pixels.
func (s *Synthetic) PredictEmotion(ctx context.Context, face image.Image) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest := hashPixels(face)
	weights := make([]float64, len(mood.Labels))
	var total float64
	for i := range mood.Labels {
		w := float64(1 + digest[i%len(digest)])
		weights[i] = w
		total += w
	}

	emotions := make(map[string]float64, len(mood.Labels))
	for i, label := range mood.Labels {
		emotions[label] = weights[i] / total
	}
	return emotions, nil
}

// minFacePixels requires the blob to cover at least 1% of the frame, with a
// small floor for tiny images.
func minFacePixels(bounds image.Rectangle) int {
	min := bounds.Dx() * bounds.Dy() / 100
	if min < 16 {
		min = 16
	}
	return min
}

func luminance(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	// Rec. 601 luma over 8-bit channels.
	return int((299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000)
}

func hashPixels(img image.Image) []byte {
	h := sha256.New()
	bounds := img.Bounds()
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(bounds.Dx()))
	binary.BigEndian.PutUint32(buf[4:], uint32(bounds.Dy()))
	h.Write(buf[:])

	// Sample a fixed 16x16 grid so large images hash quickly.
	for sy := 0; sy < 16; sy++ {
		for sx := 0; sx < 16; sx++ {
			x := bounds.Min.X + sx*bounds.Dx()/16
			y := bounds.Min.Y + sy*bounds.Dy()/16
			if x >= bounds.Max.X || y >= bounds.Max.Y {
				continue
			}
			r, g, b, _ := img.At(x, y).RGBA()
			binary.BigEndian.PutUint32(buf[:4], uint32(r>>8)<<16|uint32(g>>8)<<8|uint32(b>>8))
			h.Write(buf[:4])
		}
	}
	return h.Sum(nil)
}

var (
	_ FaceDetector      = (*Synthetic)(nil)
	_ EmotionClassifier = (*Synthetic)(nil)
)
