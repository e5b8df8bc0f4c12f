package bot

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stayfinder/internal/models"
)

var photoClient = &http.Client{Timeout: 15 * time.Second}

type photoResult struct {
	index   int
	dataURL string
	err     error
}

// convertPhotoURLs downloads each photo concurrently and encodes it as a
// data URL. Photos that are unreachable or larger than the size cap are
// dropped; the order of the survivors matches the input order.
func (b *Bot) convertPhotoURLs(ctx context.Context, urls []string) []string {
	if len(urls) == 0 {
		return nil
	}

	results := make(chan photoResult, len(urls))
	for i, url := range urls {
		go func(i int, url string) {
			dataURL, err := fetchPhotoAsDataURL(ctx, url)
			results <- photoResult{index: i, dataURL: dataURL, err: err}
		}(i, url)
	}

	byIndex := make([]string, len(urls))
	for range urls {
		res := <-results
		if res.err != nil {
			b.logger.Warn().Err(res.err).Str("url", urls[res.index]).Msg("Skipping photo")
			continue
		}
		byIndex[res.index] = res.dataURL
	}

	converted := make([]string, 0, len(urls))
	for _, dataURL := range byIndex {
		if dataURL != "" {
			converted = append(converted, dataURL)
		}
	}
	return converted
}

func fetchPhotoAsDataURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := photoClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo fetch: http %d", resp.StatusCode)
	}

	// Read one byte past the cap so an oversized body is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, models.MaxPhotoSizeBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > models.MaxPhotoSizeBytes {
		return "", fmt.Errorf("photo exceeds %d bytes", models.MaxPhotoSizeBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image: %s", contentType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
