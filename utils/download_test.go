package utils

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f, err := DownloadImage(srv.URL + "/sample.png")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUtils_ShouldRejectNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not an image</body></html>"))
	}))
	defer srv.Close()

	f, err := DownloadImage(srv.URL)
	if f != nil {
		f.Close()
		os.Remove(f.Name())
	}
	assert.Error(t, err)
}

func TestUtils_ShouldFailOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f, err := DownloadImage(srv.URL)
	assert.Nil(t, f)
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidUrl("https://github.com/esimov/dither/"))
	assert.False(t, IsValidUrl("sample.png"))
	assert.False(t, IsValidUrl("-"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	sampleImg := filepath.Join(t.TempDir(), "sample.png")
	require.NoError(t, os.WriteFile(sampleImg, pngBytes(t), 0644))

	ftype, err := DetectContentType(sampleImg)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ftype)
}
