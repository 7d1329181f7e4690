// Package inference defines the face detection and emotion classification
// capabilities consumed by the analyzer worker. The concrete model backend is
// substitutable: a remote FER+ sidecar in production, a deterministic
// synthetic implementation for local runs and tests.
package inference

import (
	"context"
	"image"
)

// Region is one detected face bounding box in pixel coordinates.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// FaceDetector finds face regions in an image. Implementations return the
// regions in detector-defined order; callers use the first one.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Region, error)
}

// EmotionClassifier computes an emotion probability distribution for a face
// crop. The returned map uses the canonical FER+ labels and sums to
// approximately one.
type EmotionClassifier interface {
	PredictEmotion(ctx context.Context, face image.Image) (map[string]float64, error)
}
