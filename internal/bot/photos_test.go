package bot

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content-type sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newPhotoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngHeader)
		case "/untyped.png":
			// No Content-Type header; sniffing has to identify the image.
			w.Header()["Content-Type"] = nil
			w.Write(pngHeader)
		case "/huge.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(bytes.Repeat([]byte{0}, 5*1024*1024+1))
		case "/missing.png":
			w.WriteHeader(http.StatusNotFound)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchPhotoAsDataURL(t *testing.T) {
	server := newPhotoServer(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		dataURL, err := fetchPhotoAsDataURL(ctx, server.URL+"/ok.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	})

	t.Run("SniffedContentType", func(t *testing.T) {
		dataURL, err := fetchPhotoAsDataURL(ctx, server.URL+"/untyped.png")
		require.NoError(t, err)
		assert.Contains(t, dataURL, "image/png")
	})

	t.Run("OversizedRejected", func(t *testing.T) {
		_, err := fetchPhotoAsDataURL(ctx, server.URL+"/huge.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("HTTPError", func(t *testing.T) {
		_, err := fetchPhotoAsDataURL(ctx, server.URL+"/missing.png")
		assert.Error(t, err)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		_, err := fetchPhotoAsDataURL(ctx, server.URL+"/page.html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an image")
	})
}

func TestConvertPhotoURLs(t *testing.T) {
	server := newPhotoServer(t)
	logger := zerolog.New(os.Stdout)
	b := &Bot{logger: &logger}

	// Failures are dropped; survivors keep input order.
	urls := []string{
		server.URL + "/ok.png",
		server.URL + "/missing.png",
		server.URL + "/untyped.png",
	}
	converted := b.convertPhotoURLs(context.Background(), urls)
	require.Len(t, converted, 2)
	for _, dataURL := range converted {
		assert.Contains(t, dataURL, "image/png")
	}

	assert.Nil(t, b.convertPhotoURLs(context.Background(), nil))
}
