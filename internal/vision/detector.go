package vision

import "context"

// Detector turns a captured image into a face embedding vector.
//
//go:generate mockgen -source=detector.go -destination=mock/detector_mock.go -package=mock
type Detector interface {
	// DetectAndEmbed returns the embedding of the most prominent face in the
	// image, or visionerrors.ErrNoFaceDetected when the image contains none.
	DetectAndEmbed(ctx context.Context, image []byte) ([]float32, error)
}
