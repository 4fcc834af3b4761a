package publisher

import (
	"context"
	"fmt"
	"path"
	"slices"
	"time"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"github.com/dmitrijs2005/talkpublisher/internal/config"
	"github.com/dmitrijs2005/talkpublisher/internal/metadata"
	"github.com/dmitrijs2005/talkpublisher/internal/resources"
)

// Remote is the part of the transfer client the pipeline needs.
type Remote interface {
	List(ctx context.Context, p string) ([]string, error)
	Retrieve(ctx context.Context, p string) ([]byte, error)
}

// MetadataSource resolves the record of the item stored in dir.
type MetadataSource interface {
	Lookup(ctx context.Context, r Remote, dir string, files []string) (*metadata.Record, error)
}

// MetadataFile fetches and scrapes a fixed-name file from the item directory.
type MetadataFile struct {
	Name    string
	Scraper *metadata.Scraper
}

func (m MetadataFile) Lookup(ctx context.Context, r Remote, dir string, files []string) (*metadata.Record, error) {
	if !slices.Contains(files, m.Name) {
		return nil, fmt.Errorf("%w: no %s", common.ErrMissingMetadata, m.Name)
	}
	content, err := r.Retrieve(ctx, path.Join(dir, m.Name))
	if err != nil {
		return nil, err
	}
	return m.Scraper.Scrape(content)
}

// DirectoryName decodes the item directory name; it never touches the remote.
type DirectoryName struct{}

func (DirectoryName) Lookup(_ context.Context, _ Remote, dir string, _ []string) (*metadata.Record, error) {
	return metadata.ParseDirectoryName(path.Base(dir))
}

// Layout pairs a metadata source with the matching file naming convention.
type Layout struct {
	Metadata   MetadataSource
	Classifier resources.Classifier
	// Thumbnail is fetched when present in the listing. Empty disables it.
	Thumbnail string
}

// NewLayout builds the layout selected by cfg.Layout.
func NewLayout(cfg *config.Config) (Layout, error) {
	switch cfg.Layout {
	case config.LayoutMetadataFile:
		return Layout{
			Metadata: MetadataFile{
				Name:    cfg.MetadataFile,
				Scraper: metadata.NewScraper(cfg.EventYear, time.Month(cfg.EventMonth)),
			},
			Classifier: resources.SuffixConvention{LowSuffix: cfg.LowSuffix, HighSuffix: cfg.HighSuffix},
			Thumbnail:  cfg.ThumbnailFile,
		}, nil
	case config.LayoutDirectoryName:
		return Layout{
			Metadata: DirectoryName{},
			Classifier: resources.PrefixConvention{
				LowPrefix:      cfg.LowPrefix,
				HighPrefix:     cfg.HighPrefix,
				OriginalPrefix: cfg.OriginalPrefix,
			},
		}, nil
	default:
		return Layout{}, fmt.Errorf("unknown layout %q", cfg.Layout)
	}
}
