// Package resources sorts the files of a talk directory into quality tiers
// by naming convention.
package resources

import (
	"path"
	"strings"
)

type Quality string

const (
	QualityLow  Quality = "low"
	QualityHigh Quality = "high"
)

// Resource is one rendition as published in the manifest.
type Resource struct {
	Filename     string
	Quality      Quality
	Downloadable bool
	Displayable  bool
}

// Set is the outcome of classifying one directory listing.
type Set struct {
	Low  []string
	High []string
	// Other holds unrecognized files under the prefix convention. They are
	// published as high quality.
	Other []string
	// OriginalPrefix marks Other files that are unprocessed originals and
	// must not be displayed.
	OriginalPrefix string
}

// Publishable reports whether the set has at least one low or high rendition.
func (s Set) Publishable() bool {
	return len(s.Low) > 0 || len(s.High) > 0
}

// Resources lists low, high, then other renditions.
func (s Set) Resources() []Resource {
	out := make([]Resource, 0, len(s.Low)+len(s.High)+len(s.Other))
	for _, f := range s.Low {
		out = append(out, Resource{Filename: f, Quality: QualityLow, Downloadable: true, Displayable: true})
	}
	for _, f := range s.High {
		out = append(out, Resource{Filename: f, Quality: QualityHigh, Downloadable: true, Displayable: true})
	}
	for _, f := range s.Other {
		hidden := s.OriginalPrefix != "" && strings.HasPrefix(f, s.OriginalPrefix)
		out = append(out, Resource{Filename: f, Quality: QualityHigh, Downloadable: true, Displayable: !hidden})
	}
	return out
}

// Filenames returns the names of the resources published at quality q.
func (s Set) Filenames(q Quality) []string {
	var names []string
	for _, r := range s.Resources() {
		if r.Quality == q {
			names = append(names, r.Filename)
		}
	}
	return names
}

// Classifier partitions a flat directory listing.
type Classifier interface {
	Classify(files []string) Set
}

// SuffixConvention recognizes "<name>_small.ext" / "<name>_big.ext".
// Anything else (metadata, thumbnail) is ignored.
type SuffixConvention struct {
	LowSuffix  string
	HighSuffix string
}

func (c SuffixConvention) Classify(files []string) Set {
	var s Set
	for _, f := range files {
		stem := strings.TrimSuffix(f, path.Ext(f))
		switch {
		case c.LowSuffix != "" && strings.HasSuffix(stem, c.LowSuffix):
			s.Low = append(s.Low, f)
		case c.HighSuffix != "" && strings.HasSuffix(stem, c.HighSuffix):
			s.High = append(s.High, f)
		}
	}
	return s
}

// PrefixConvention recognizes "low*" / "hd_ready*"; every other file lands
// in Other.
type PrefixConvention struct {
	LowPrefix      string
	HighPrefix     string
	OriginalPrefix string
}

func (c PrefixConvention) Classify(files []string) Set {
	s := Set{OriginalPrefix: c.OriginalPrefix}
	for _, f := range files {
		switch {
		case c.LowPrefix != "" && strings.HasPrefix(f, c.LowPrefix):
			s.Low = append(s.Low, f)
		case c.HighPrefix != "" && strings.HasPrefix(f, c.HighPrefix):
			s.High = append(s.High, f)
		default:
			s.Other = append(s.Other, f)
		}
	}
	return s
}
