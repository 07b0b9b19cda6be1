// Package deploy publishes launch announcements and drives the external
// deployment service that mints the token.
package deploy

import (
	"context"
	"fmt"
	"io"
	"log"

	"petpad-launchpad/internal/clawnch"
	"petpad-launchpad/internal/domain"
)

// Feed publishes announcement posts.
type Feed interface {
	CreatePost(ctx context.Context, submolt, title, content string) (*domain.Post, error)
	PostURL(postID string) string
}

// Launcher asks the deployment service to mint a token from a published
// announcement post.
type Launcher interface {
	Launch(ctx context.Context, credential, postID string) (*clawnch.LaunchResult, error)
}

// Deployer turns a validated launch request into a deployed token.
type Deployer struct {
	feed       Feed
	launcher   Launcher
	submolt    string
	credential string
	logger     *log.Logger
}

// Options configures a Deployer.
type Options struct {
	Feed       Feed
	Launcher   Launcher
	Submolt    string
	Credential string
	Logger     *log.Logger
}

// NewDeployer creates a Deployer from options.
func NewDeployer(opts Options) (*Deployer, error) {
	if opts.Feed == nil {
		return nil, fmt.Errorf("feed is required")
	}
	if opts.Launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if opts.Submolt == "" {
		return nil, fmt.Errorf("submolt is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Deployer{
		feed:       opts.Feed,
		launcher:   opts.Launcher,
		submolt:    opts.Submolt,
		credential: opts.Credential,
		logger:     logger,
	}, nil
}

// Deploy publishes the announcement post and calls the deployment service.
// The announcement post is the unit the service acts on, so its ID and URL
// are carried in the result.
func (d *Deployer) Deploy(ctx context.Context, req *domain.LaunchRequest, imageURL string) (*domain.DeploymentResult, error) {
	title, content, err := buildAnnouncement(req, imageURL)
	if err != nil {
		return nil, err
	}

	post, err := d.feed.CreatePost(ctx, d.submolt, title, content)
	if err != nil {
		return nil, fmt.Errorf("publish announcement: %w", err)
	}
	d.logger.Printf("published announcement for %s: post %s", req.Symbol, post.ID)

	result, err := d.launcher.Launch(ctx, d.credential, post.ID)
	if err != nil {
		return nil, fmt.Errorf("deploy token: %w", err)
	}

	return &domain.DeploymentResult{
		ContractAddress: result.TokenAddress,
		TxHash:          result.TxHash,
		LaunchPageURL:   result.PageURL,
		PostID:          post.ID,
		PostURL:         d.feed.PostURL(post.ID),
	}, nil
}
