package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	visionerrors "go-faceattend/internal/vision/errors"

	"go.uber.org/zap"
)

// httpDetector calls a face-recognition sidecar over HTTP. The sidecar owns
// the model; this process only ships pixels in and vectors out.
type httpDetector struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

type embedRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewHTTPDetector(baseURL string, timeout time.Duration, logger ...*zap.Logger) Detector {
	l := zap.L().Named("vision.detector")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vision.detector")
	}
	return &httpDetector{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  l,
	}
}

func (d *httpDetector) DetectAndEmbed(ctx context.Context, image []byte) ([]float32, error) {
	body, err := json.Marshal(embedRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("detector request failed", zap.Error(err))
		return nil, visionerrors.ErrDetectorUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, visionerrors.ErrNoFaceDetected
	case resp.StatusCode != http.StatusOK:
		d.logger.Error("detector returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("detector: unexpected status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("detector: decode response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, visionerrors.ErrNoFaceDetected
	}

	return out.Embedding, nil
}
