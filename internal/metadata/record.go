// Package metadata turns the two archive layouts into a Record: scraping
// NAME="value" pairs out of a shell-style metadata file, or decomposing a
// "<date>_<id>_<title>" directory name.
//
// Both strategies are pure functions of their input.
package metadata

import (
	"strings"
	"time"
)

// Record is the metadata of one talk. Optional fields are zero or nil when
// absent.
type Record struct {
	ID       int
	Title    string
	Speakers []string
	Date     time.Time
	Format   string
	Start    *int
	Duration *int
	Language string
	License  string
}

// SplitSpeakers splits a pipe-delimited speaker list, trimming names and
// dropping empty ones. It returns nil when nothing is left.
func SplitSpeakers(raw string) []string {
	var speakers []string
	for _, s := range strings.Split(raw, "|") {
		if s = strings.TrimSpace(s); s != "" {
			speakers = append(speakers, s)
		}
	}
	return speakers
}
