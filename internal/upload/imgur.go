package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MethodImgur uploads to the Imgur API. Requires a client id.
const MethodImgur = "imgur"

const defaultImgurEndpoint = "https://api.imgur.com/3/image"

// Imgur uploads images through the Imgur anonymous-upload API.
type Imgur struct {
	clientID string
	endpoint string
	client   *http.Client
}

// NewImgur creates the Imgur uploader. clientID may be empty; Upload then
// fails fast instead of issuing an unauthenticated request.
func NewImgur(clientID string) *Imgur {
	return &Imgur{
		clientID: clientID,
		endpoint: defaultImgurEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the provider.
func (u *Imgur) Name() string { return MethodImgur }

// Upload sends the image base64-encoded and returns the hosted link.
func (u *Imgur) Upload(ctx context.Context, image []byte, _ string) (string, error) {
	if u.clientID == "" {
		return "", fmt.Errorf("imgur client id not configured")
	}

	body, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
		"type":  "base64",
	})
	if err != nil {
		return "", fmt.Errorf("marshal imgur request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.clientID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to imgur: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload to imgur: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode imgur response: %w", err)
	}
	if payload.Data.Link == "" {
		return "", fmt.Errorf("no image link in imgur response")
	}
	return payload.Data.Link, nil
}

// Verify interface compliance at compile time.
var _ Uploader = (*Imgur)(nil)
