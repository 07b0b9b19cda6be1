// Package scanner polls the feed for launch requests and drives each valid
// one through rendering, upload, announcement, and deployment.
package scanner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/ledger"
	"petpad-launchpad/internal/observability"
	"petpad-launchpad/internal/parser"
)

// DefaultBatchSize is the number of posts fetched per cycle.
const DefaultBatchSize = 50

// DefaultLaunchDelay is the pause after each launch attempt so a burst of
// requests does not hammer the announcement feed and deployment service.
const DefaultLaunchDelay = 5 * time.Second

// Feed supplies candidate posts.
type Feed interface {
	GetPosts(ctx context.Context, submolt string, limit int) ([]domain.Post, error)
	PostURL(postID string) string
}

// ImagePublisher uploads a rendered token image and returns its public URL.
type ImagePublisher interface {
	Publish(ctx context.Context, image []byte, symbol string) (string, error)
}

// Deployer announces and deploys a validated launch request.
type Deployer interface {
	Deploy(ctx context.Context, req *domain.LaunchRequest, imageURL string) (*domain.DeploymentResult, error)
}

// RenderFunc produces the token image for a pet type.
type RenderFunc func(pet domain.PetType) ([]byte, error)

// Runner executes scan cycles over the feed.
type Runner struct {
	feed        Feed
	ledger      *ledger.Ledger
	parser      *parser.Parser
	render      RenderFunc
	publisher   ImagePublisher
	deployer    Deployer
	submolt     string
	batchSize   int
	launchDelay time.Duration
	logger      *log.Logger

	mu        sync.Mutex
	running   bool
	lastScan  time.Time
	scanCount int
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Feed      Feed
	Ledger    *ledger.Ledger
	Parser    *parser.Parser
	Render    RenderFunc
	Publisher ImagePublisher
	Deployer  Deployer
	Submolt   string

	// BatchSize defaults to DefaultBatchSize when zero.
	BatchSize int

	// LaunchDelay defaults to DefaultLaunchDelay when zero. Tests set a
	// negative value to disable pacing.
	LaunchDelay time.Duration

	Logger *log.Logger
}

// NewRunner creates a Runner from options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Feed == nil {
		return nil, fmt.Errorf("feed is required")
	}
	if opts.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if opts.Parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if opts.Render == nil {
		return nil, fmt.Errorf("render func is required")
	}
	if opts.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if opts.Deployer == nil {
		return nil, fmt.Errorf("deployer is required")
	}
	if opts.Submolt == "" {
		return nil, fmt.Errorf("submolt is required")
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.LaunchDelay == 0 {
		opts.LaunchDelay = DefaultLaunchDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{
		feed:        opts.Feed,
		ledger:      opts.Ledger,
		parser:      opts.Parser,
		render:      opts.Render,
		publisher:   opts.Publisher,
		deployer:    opts.Deployer,
		submolt:     opts.Submolt,
		batchSize:   opts.BatchSize,
		launchDelay: opts.LaunchDelay,
		logger:      opts.Logger,
	}, nil
}

// Status reports scan progress for the health endpoint.
type Status struct {
	Running   bool      `json:"running"`
	LastScan  time.Time `json:"lastScan"`
	ScanCount int       `json:"scanCount"`
}

// Status returns the current scan status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{Running: r.running, LastScan: r.lastScan, ScanCount: r.scanCount}
}

// Scan runs a single cycle. A cycle already in flight makes this call a
// no-op, so overlapping ticks never double-process posts.
func (r *Runner) Scan(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Printf("scan already in progress, skipping")
		return nil
	}
	r.running = true
	r.mu.Unlock()

	start := time.Now()
	err := r.scanCycle(ctx)

	r.mu.Lock()
	r.running = false
	r.lastScan = time.Now()
	r.scanCount++
	r.mu.Unlock()

	if err != nil {
		observability.RecordScan("error", time.Since(start).Seconds())
		return err
	}
	observability.RecordScan("success", time.Since(start).Seconds())
	observability.SetLastScan(float64(time.Now().Unix()))
	return nil
}

func (r *Runner) scanCycle(ctx context.Context) error {
	posts, err := r.feed.GetPosts(ctx, r.submolt, r.batchSize)
	if err != nil {
		r.logger.Printf("fetch posts: %v", err)
		return fmt.Errorf("fetch posts: %w", err)
	}
	observability.RecordPostsFetched(len(posts))

	for i := range posts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		post := &posts[i]

		seen, err := r.ledger.HasProcessed(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("check processed %s: %w", post.ID, err)
		}
		if seen {
			continue
		}

		attempted := r.processPost(ctx, post)

		// Every examined post is marked exactly once, whatever the
		// outcome. A failed launch is never retried on later cycles.
		if err := r.ledger.MarkProcessed(ctx, post.ID); err != nil {
			return fmt.Errorf("mark processed %s: %w", post.ID, err)
		}

		if attempted && r.launchDelay > 0 {
			if err := sleepCtx(ctx, r.launchDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// processPost handles one unseen post and reports whether a launch was
// attempted. Launch failures are logged, not returned, so the rest of the
// batch still runs.
func (r *Runner) processPost(ctx context.Context, post *domain.Post) bool {
	req := r.parser.Parse(post.Content)
	if req == nil {
		observability.RecordPostOutcome("rejected")
		return false
	}

	taken, err := r.ledger.IsSymbolTaken(ctx, req.Symbol)
	if err != nil {
		r.logger.Printf("symbol lookup for %s: %v", req.Symbol, err)
		observability.RecordPostOutcome("error")
		return false
	}
	if taken {
		r.logger.Printf("symbol %s already launched, skipping post %s", req.Symbol, post.ID)
		observability.RecordSymbolConflict()
		observability.RecordPostOutcome("conflict")
		return false
	}

	if err := r.launch(ctx, post, req); err != nil {
		r.logger.Printf("launch %s failed: %v", req.Symbol, err)
		observability.RecordLaunch("error")
		observability.RecordPostOutcome("failed")
		return true
	}

	r.logger.Printf("launched %s from post %s", req.Symbol, post.ID)
	observability.RecordLaunch("success")
	observability.RecordPostOutcome("launched")
	return true
}

func (r *Runner) launch(ctx context.Context, post *domain.Post, req *domain.LaunchRequest) error {
	image, err := r.render(req.PetType)
	if err != nil {
		return fmt.Errorf("render image: %w", err)
	}

	imageURL, err := r.publisher.Publish(ctx, image, req.Symbol)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	deployment, err := r.deployer.Deploy(ctx, req, imageURL)
	if err != nil {
		return err
	}

	record := &domain.LaunchRecord{
		Request:         *req,
		ImageURL:        imageURL,
		ContractAddress: deployment.ContractAddress,
		TxHash:          deployment.TxHash,
		LaunchPageURL:   deployment.LaunchPageURL,
		SourcePostID:    post.ID,
		SourcePostURL:   r.feed.PostURL(post.ID),
		AnnouncePostID:  deployment.PostID,
		AnnouncePostURL: deployment.PostURL,
		AgentName:       post.Author,
		LaunchedAt:      time.Now().UnixMilli(),
	}
	if err := r.ledger.Commit(ctx, record); err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
