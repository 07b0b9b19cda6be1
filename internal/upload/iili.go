package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"time"
)

// MethodIili is the default no-credential provider.
const MethodIili = "iili"

const defaultIiliEndpoint = "https://iili.io/uploadimage.php"

// iili.io answers with an HTML page; the hosted image URL is embedded in it.
var iiliURLPattern = regexp.MustCompile(`https://iili\.io/[A-Za-z0-9]+\.png`)

// Iili uploads images to iili.io. Requires no credentials.
type Iili struct {
	endpoint string
	client   *http.Client
}

// NewIili creates the iili.io uploader.
func NewIili() *Iili {
	return &Iili{
		endpoint: defaultIiliEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the provider.
func (u *Iili) Name() string { return MethodIili }

// Upload posts the image as multipart form data and extracts the hosted URL
// from the HTML response.
func (u *Iili) Upload(ctx context.Context, image []byte, _ string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := fmt.Sprintf("petpad-%d.png", time.Now().UnixMilli())
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to iili.io: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload to iili.io: unexpected status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read iili.io response: %w", err)
	}

	match := iiliURLPattern.Find(html)
	if match == nil {
		return "", fmt.Errorf("no image URL in iili.io response")
	}
	return string(match), nil
}

// Verify interface compliance at compile time.
var _ Uploader = (*Iili)(nil)
