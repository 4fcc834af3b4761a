// Package common defines shared constants and sentinel errors used across
// the publisher pipeline. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Metadata errors. Both skip the item.
	ErrMissingMetadata   = errors.New("missing metadata")
	ErrMalformedMetadata = errors.New("malformed metadata")

	// Item has neither low nor high quality renditions.
	ErrNoResources = errors.New("no resources")

	// Upload boundary errors.
	ErrUploadFailed = errors.New("upload failed")
	ErrMirrorFailed = errors.New("mirror failed")
)
