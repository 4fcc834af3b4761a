package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/talkpublisher/internal/metadata"
	"github.com/dmitrijs2005/talkpublisher/internal/resources"
)

// Placeholders understood in URL templates.
const (
	MediaIDPlaceholder  = "{media_id}"
	FilenamePlaceholder = "{filename}"
)

// Builder maps a talk onto a MetaCast.
type Builder struct {
	// URLTemplate, e.g. "http://cdn.example.org/videos2010/{media_id}/{filename}".
	URLTemplate     string
	Category        string
	DefaultLanguage string
}

// Build is a pure mapping; it never fails.
func (b Builder) Build(mediaID string, rec *metadata.Record, res []resources.Resource) *MetaCast {
	m := &MetaCast{
		Type:      TypeDual,
		Language:  rec.Language,
		Title:     rec.Title,
		Category:  b.Category,
		Creation:  rec.Date.Format(time.ANSIC),
		Format:    rec.Format,
		Start:     rec.Start,
		Duration:  rec.Duration,
		Resources: make([]Resource, 0, len(res)),
	}
	if m.Language == "" {
		m.Language = b.DefaultLanguage
	}
	if len(rec.Speakers) > 0 {
		m.Speaker = &Speaker{Name: strings.Join(rec.Speakers, ", ")}
	}
	if rec.License != "" {
		m.License = &License{Name: rec.License}
	}

	for _, r := range res {
		m.Resources = append(m.Resources, Resource{
			URL:          ResourceURL(b.URLTemplate, mediaID, r.Filename),
			Quality:      string(r.Quality),
			Downloadable: r.Downloadable,
			Displayable:  r.Displayable,
		})
	}
	return m
}

// ResourceURL fills the template with the path-escaped media id and filename.
func ResourceURL(template, mediaID, filename string) string {
	return strings.NewReplacer(
		MediaIDPlaceholder, url.PathEscape(mediaID),
		FilenamePlaceholder, url.PathEscape(filename),
	).Replace(template)
}

// Write serializes m as an indented XML document.
func Write(w io.Writer, m *MetaCast) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes m to path, replacing any previous file.
func WriteFile(path string, m *MetaCast) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
