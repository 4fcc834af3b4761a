package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
)

var directoryPattern = regexp.MustCompile(`^(\d+)[-_](\d+)[-_](.*)$`)

const directoryDateLayout = "20060102"

var titleSeparators = strings.NewReplacer("-", " ", "_", " ")

// ParseDirectoryName decomposes "<YYYYMMDD>_<id>_<title>" (either '-' or
// '_' between segments). Separators in the title become spaces. Speaker
// and license stay absent.
func ParseDirectoryName(name string) (*Record, error) {
	m := directoryPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("%w: directory %q does not match <date>_<id>_<title>", common.ErrMissingMetadata, name)
	}

	date, err := time.Parse(directoryDateLayout, m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: directory date %q: %v", common.ErrMalformedMetadata, m[1], err)
	}

	id, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: directory id %q: %v", common.ErrMalformedMetadata, m[2], err)
	}

	title := strings.TrimSpace(titleSeparators.Replace(m[3]))
	if title == "" {
		return nil, fmt.Errorf("%w: directory %q has no title", common.ErrMissingMetadata, name)
	}

	return &Record{ID: id, Title: title, Date: date}, nil
}
