// Package upload publishes rendered image bytes to a publicly reachable URL,
// trying the configured provider first and falling back once to the
// no-credential default provider.
package upload

import (
	"context"
	"fmt"
	"log"

	"petpad-launchpad/internal/observability"
)

// Uploader is a single image-hosting provider.
type Uploader interface {
	// Name identifies the provider in logs and configuration.
	Name() string

	// Upload publishes image bytes and returns a public URL.
	// Missing required provider configuration is an error, not a no-op.
	Upload(ctx context.Context, image []byte, symbol string) (string, error)
}

// Publisher tries the primary provider and falls back once to the default.
// When the primary IS the default, its failure propagates directly so the
// chain can never loop.
type Publisher struct {
	primary  Uploader
	fallback Uploader
	logger   *log.Logger
}

// NewPublisher creates a Publisher. fallback may equal primary, in which case
// no second attempt is made.
func NewPublisher(primary, fallback Uploader, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{primary: primary, fallback: fallback, logger: logger}
}

// Publish uploads image bytes for a symbol and returns the public URL.
func (p *Publisher) Publish(ctx context.Context, image []byte, symbol string) (string, error) {
	p.logger.Printf("uploading image for %s via %s", symbol, p.primary.Name())

	url, err := p.primary.Upload(ctx, image, symbol)
	if err == nil {
		observability.RecordImageUpload(p.primary.Name(), "success")
		return url, nil
	}

	observability.RecordImageUpload(p.primary.Name(), "error")
	p.logger.Printf("upload via %s failed for %s: %v", p.primary.Name(), symbol, err)

	if p.fallback == nil || p.fallback.Name() == p.primary.Name() {
		return "", err
	}

	p.logger.Printf("falling back to %s for %s", p.fallback.Name(), symbol)
	url, fbErr := p.fallback.Upload(ctx, image, symbol)
	if fbErr != nil {
		observability.RecordImageUpload(p.fallback.Name(), "error")
		return "", fmt.Errorf("fallback upload via %s: %w", p.fallback.Name(), fbErr)
	}

	observability.RecordImageUpload(p.fallback.Name(), "success")
	return url, nil
}

// ForMethod returns the uploader for a configured method name.
func ForMethod(method, imgurClientID, selfHostedURL, uploadsDir string) (Uploader, error) {
	switch method {
	case MethodIili:
		return NewIili(), nil
	case MethodImgur:
		return NewImgur(imgurClientID), nil
	case MethodSelfHosted:
		return NewSelfHosted(selfHostedURL, uploadsDir), nil
	default:
		return nil, fmt.Errorf("unknown upload method %q", method)
	}
}
