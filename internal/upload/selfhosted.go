package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MethodSelfHosted writes images into a directory served by the query API.
const MethodSelfHosted = "self-hosted"

// SelfHosted stores images on local disk under a timestamped filename and
// returns a URL below the configured public base URL.
type SelfHosted struct {
	baseURL string
	dir     string
}

// NewSelfHosted creates the self-hosted uploader. baseURL may be empty;
// Upload then fails fast.
func NewSelfHosted(baseURL, dir string) *SelfHosted {
	return &SelfHosted{baseURL: strings.TrimSuffix(baseURL, "/"), dir: dir}
}

// Name identifies the provider.
func (u *SelfHosted) Name() string { return MethodSelfHosted }

// Upload writes the image to <dir>/<symbol>-<unixms>.png and returns
// <baseURL>/images/<filename>.
func (u *SelfHosted) Upload(_ context.Context, image []byte, symbol string) (string, error) {
	if u.baseURL == "" {
		return "", fmt.Errorf("self-hosted base URL not configured")
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%s-%d.png", strings.ToLower(symbol), time.Now().UnixMilli())
	path := filepath.Join(u.dir, filename)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return u.baseURL + "/images/" + filename, nil
}

// Verify interface compliance at compile time.
var _ Uploader = (*SelfHosted)(nil)
