package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"golang.org/x/text/encoding/charmap"
)

// FieldNames are the variable names looked up in a metadata file.
type FieldNames struct {
	ID       string
	Title    string
	Speaker  string
	Date     string
	Format   string
	Start    string
	Duration string
	Language string
	License  string
}

// DefaultFieldNames matches the titre.sh files of the archive.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		ID:       "CID",
		Title:    "TIT",
		Speaker:  "AUT",
		Date:     "DAT",
		Format:   "FMT",
		Start:    "START",
		Duration: "DURATION",
		Language: "LNG",
		License:  "LIC",
	}
}

// Scraper reads Latin-1 metadata files. The date field holds only a day
// number; Year and Month supply the rest.
type Scraper struct {
	Fields FieldNames
	Year   int
	Month  time.Month

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func NewScraper(year int, month time.Month) *Scraper {
	return &Scraper{Fields: DefaultFieldNames(), Year: year, Month: month}
}

// Scrape extracts a Record from raw metadata file content. ID, title and
// date are required.
func (s *Scraper) Scrape(content []byte) (*Record, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", common.ErrMalformedMetadata, err)
	}
	text := string(decoded)

	rec := &Record{}

	id, err := s.requiredInt(text, s.Fields.ID)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	title, ok := s.lookup(text, s.Fields.Title)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: %s not found", common.ErrMissingMetadata, s.Fields.Title)
	}
	rec.Title = title

	day, err := s.requiredInt(text, s.Fields.Date)
	if err != nil {
		return nil, err
	}
	rec.Date, err = s.dayToDate(day)
	if err != nil {
		return nil, err
	}

	if v, ok := s.lookup(text, s.Fields.Speaker); ok {
		rec.Speakers = SplitSpeakers(v)
	}
	rec.Format, _ = s.lookup(text, s.Fields.Format)
	rec.Language, _ = s.lookup(text, s.Fields.Language)
	rec.License, _ = s.lookup(text, s.Fields.License)

	if rec.Start, err = s.optionalInt(text, s.Fields.Start); err != nil {
		return nil, err
	}
	if rec.Duration, err = s.optionalInt(text, s.Fields.Duration); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Scraper) dayToDate(day int) (time.Time, error) {
	d := time.Date(s.Year, s.Month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != s.Month {
		return time.Time{}, fmt.Errorf("%w: day %d not in %s %d", common.ErrMalformedMetadata, day, s.Month, s.Year)
	}
	return d, nil
}

// pattern returns the compiled NAME="value" matcher, building it on first use.
func (s *Scraper) pattern(name string) *regexp.Regexp {
	s.mu.Lock()
	defer s.mu.Unlock()

	if re, ok := s.patterns[name]; ok {
		return re
	}
	if s.patterns == nil {
		s.patterns = make(map[string]*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `="([^"]*)"`)
	s.patterns[name] = re
	return re
}

// lookup finds the first NAME="value" occurrence.
func (s *Scraper) lookup(text, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	m := s.pattern(name).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (s *Scraper) requiredInt(text, name string) (int, error) {
	v, ok := s.lookup(text, name)
	if !ok {
		return 0, fmt.Errorf("%w: %s not found", common.ErrMissingMetadata, name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", common.ErrMalformedMetadata, name, v)
	}
	return n, nil
}

func (s *Scraper) optionalInt(text, name string) (*int, error) {
	v, ok := s.lookup(text, name)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", common.ErrMalformedMetadata, name, v)
	}
	return &n, nil
}
