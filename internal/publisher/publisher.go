package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"github.com/dmitrijs2005/talkpublisher/internal/config"
	"github.com/dmitrijs2005/talkpublisher/internal/filex"
	"github.com/dmitrijs2005/talkpublisher/internal/logging"
	"github.com/dmitrijs2005/talkpublisher/internal/manifest"
	"github.com/dmitrijs2005/talkpublisher/internal/mirror"
	"github.com/dmitrijs2005/talkpublisher/internal/remote"
	"github.com/google/uuid"
)

// errEmptyItem marks a directory with nothing in it.
var errEmptyItem = errors.New("empty item directory")

// Summary counts item outcomes of one run.
type Summary struct {
	Published int
	Skipped   int
	Failed    int
}

func (s Summary) String() string {
	return fmt.Sprintf("published=%d skipped=%d failed=%d", s.Published, s.Skipped, s.Failed)
}

type Publisher struct {
	cfg     *config.Config
	remote  Remote
	layout  Layout
	builder manifest.Builder
	mirror  mirror.Mirror
	http    *http.Client
	logger  logging.Logger
	runID   string
	tmpDir  string
}

// New wires a publisher for cfg. A nil mirror disables mirroring.
func New(cfg *config.Config, r Remote, m mirror.Mirror, logger logging.Logger) (*Publisher, error) {
	layout, err := NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = mirror.Nop{}
	}

	runID := uuid.NewString()

	return &Publisher{
		cfg:    cfg,
		remote: r,
		layout: layout,
		builder: manifest.Builder{
			URLTemplate:     cfg.URLTemplate,
			Category:        cfg.Channel,
			DefaultLanguage: cfg.DefaultLanguage,
		},
		mirror: m,
		http:   &http.Client{Timeout: cfg.UploadTimeout},
		logger: logger.With("run_id", runID),
		runID:  runID,
	}, nil
}

// RunID identifies this run in logs and mirror keys.
func (p *Publisher) RunID() string {
	return p.runID
}

// Publish processes every directory under the remote root. The returned
// error is non-nil only when the run was cut short; the summary then covers
// the items handled so far.
func (p *Publisher) Publish(ctx context.Context) (Summary, error) {
	var sum Summary

	dir, err := filex.EnsureDir(p.cfg.TempDir)
	if err != nil {
		return sum, fmt.Errorf("scratch dir: %w", err)
	}
	p.tmpDir = dir

	items, err := p.remote.List(ctx, p.cfg.RemoteRoot)
	if err != nil {
		return sum, err
	}
	p.logger.Info(ctx, "archive listed", "root", p.cfg.RemoteRoot, "items", len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		err := p.processItem(ctx, item)
		if abort := p.record(ctx, &sum, item, err); abort != nil {
			return sum, abort
		}
	}

	p.logger.Info(ctx, "run finished", "published", sum.Published, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

// record logs the outcome of one item and returns err when it must end the run.
func (p *Publisher) record(ctx context.Context, sum *Summary, item string, err error) error {
	var rerr *remote.Error

	switch {
	case err == nil:
		sum.Published++
		p.logger.Info(ctx, "item published", "item", item)
	case errors.As(err, &rerr):
		p.logger.Error(ctx, "remote archive unavailable, aborting", "item", item, "error", err)
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errEmptyItem):
		sum.Skipped++
		p.logger.Info(ctx, "item skipped", "item", item, "reason", err)
	case errors.Is(err, common.ErrMissingMetadata),
		errors.Is(err, common.ErrMalformedMetadata),
		errors.Is(err, common.ErrNoResources):
		sum.Skipped++
		p.logger.Warn(ctx, "item skipped", "item", item, "reason", err)
	default:
		sum.Failed++
		p.logger.Error(ctx, "item failed", "item", item, "error", err)
	}
	return nil
}
