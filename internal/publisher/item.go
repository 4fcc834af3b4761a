package publisher

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/dmitrijs2005/talkpublisher/internal/archive"
	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"github.com/dmitrijs2005/talkpublisher/internal/filex"
	"github.com/dmitrijs2005/talkpublisher/internal/manifest"
	"github.com/dmitrijs2005/talkpublisher/internal/netx"
	"github.com/dmitrijs2005/talkpublisher/internal/resources"
)

// processItem publishes the talk stored in <root>/<name>. Every scratch
// file it creates is removed on return when cleanup is enabled.
func (p *Publisher) processItem(ctx context.Context, name string) error {
	dir := path.Join(p.cfg.RemoteRoot, name)
	log := p.logger.With("item", name)

	files, err := p.remote.List(ctx, dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errEmptyItem
	}

	rec, err := p.layout.Metadata.Lookup(ctx, p.remote, dir, files)
	if err != nil {
		return err
	}

	var scratch []string
	defer func() {
		if !p.cfg.Clean {
			return
		}
		if err := filex.RemoveFiles(scratch...); err != nil {
			log.Warn(ctx, "cleanup failed", "error", err)
		}
	}()

	entries := make([]archive.Entry, 0, 2)
	xmlPath := p.scratchPath(name, ".xml")
	entries = append(entries, archive.Entry{Name: common.ManifestEntryName, Source: xmlPath})

	if p.layout.Thumbnail != "" && slices.Contains(files, p.layout.Thumbnail) {
		data, err := p.remote.Retrieve(ctx, path.Join(dir, p.layout.Thumbnail))
		if err != nil {
			return err
		}
		thumbPath := p.scratchPath(name, ".jpg")
		scratch = append(scratch, thumbPath)
		if err := os.WriteFile(thumbPath, data, 0o600); err != nil {
			return fmt.Errorf("write thumbnail: %w", err)
		}
		entries = append(entries, archive.Entry{Name: common.ThumbnailEntryName, Source: thumbPath})
	}

	set := p.layout.Classifier.Classify(files)
	if !set.Publishable() {
		return fmt.Errorf("%w: %d files, none low or high quality", common.ErrNoResources, len(files))
	}
	log.Debug(ctx, "resources classified",
		"low", set.Filenames(resources.QualityLow),
		"high", set.Filenames(resources.QualityHigh))

	m := p.builder.Build(name, rec, set.Resources())
	scratch = append(scratch, xmlPath)
	if err := manifest.WriteFile(xmlPath, m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	zipPath := p.scratchPath(name, ".zip")
	scratch = append(scratch, zipPath)
	if err := archive.Create(zipPath, entries); err != nil {
		return fmt.Errorf("build archive: %w", err)
	}
	log.Debug(ctx, "package built", "path", zipPath, "resources", len(m.Resources))

	key := path.Join(p.runID, name+".zip")
	if err := p.mirror.Store(ctx, key, zipPath); err != nil {
		log.Warn(ctx, "mirror failed", "key", key, "error", err)
	}

	fields := map[string]string{common.APIKeyFieldName: p.cfg.APIKey}
	return netx.PostFile(ctx, p.http, p.cfg.UploadURL, fields, common.FileFieldName, zipPath)
}

func (p *Publisher) scratchPath(name, ext string) string {
	return filepath.Join(p.tmpDir, name+ext)
}
