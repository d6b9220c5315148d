package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	visionerrors "go-faceattend/internal/vision/errors"

	"github.com/stretchr/testify/assert"
)

func TestHTTPDetector_DetectAndEmbed(t *testing.T) {
	image := []byte("fake-jpeg-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed", r.URL.Path)

		var req embedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.ImageBase64)

		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, 5*time.Second)
	vec, err := d.DetectAndEmbed(context.Background(), image)

	assert.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestHTTPDetector_NoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, 5*time.Second)
	_, err := d.DetectAndEmbed(context.Background(), []byte("no-face"))

	assert.ErrorIs(t, err, visionerrors.ErrNoFaceDetected)
}

func TestHTTPDetector_EmptyEmbeddingIsNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, 5*time.Second)
	_, err := d.DetectAndEmbed(context.Background(), []byte("img"))

	assert.ErrorIs(t, err, visionerrors.ErrNoFaceDetected)
}

func TestHTTPDetector_Unreachable(t *testing.T) {
	d := NewHTTPDetector("http://127.0.0.1:1", time.Second)
	_, err := d.DetectAndEmbed(context.Background(), []byte("img"))

	assert.ErrorIs(t, err, visionerrors.ErrDetectorUnavailable)
}
