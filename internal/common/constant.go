package common

// Entry names inside a package archive, as expected by the media server.
const (
	ManifestEntryName  = "metadata.xml"
	ThumbnailEntryName = "thumb.jpg"
)

// APIKeyFieldName and FileFieldName are the form fields of the upload call.
const (
	APIKeyFieldName = "api_key"
	FileFieldName   = "file"
)
