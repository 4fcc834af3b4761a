package config

import (
	"time"

	"github.com/mitchellh/go-homedir"
)

// Archive layouts.
const (
	// LayoutMetadataFile: each talk directory has a titre.sh-style metadata
	// file, a thumbnail and "_small"/"_big" renditions.
	LayoutMetadataFile = "metadata-file"
	// LayoutDirectoryName: the directory name carries date, id and title;
	// renditions are named "low*"/"hd_ready*".
	LayoutDirectoryName = "directory-name"
)

// Config holds runtime settings for one publishing run.
type Config struct {
	FTPHost     string `validate:"required"`
	FTPUser     string `validate:"required_with=FTPPassword"`
	FTPPassword string
	DialTimeout time.Duration `validate:"gt=0"`
	RemoteRoot  string        `validate:"required"`

	// URLTemplate builds public resource URLs from {media_id} and {filename}.
	URLTemplate string `validate:"required,contains={filename}"`

	Layout         string `validate:"oneof=metadata-file directory-name"`
	MetadataFile   string `validate:"required_if=Layout metadata-file"`
	ThumbnailFile  string
	LowSuffix      string `validate:"required_if=Layout metadata-file"`
	HighSuffix     string `validate:"required_if=Layout metadata-file"`
	LowPrefix      string `validate:"required_if=Layout directory-name"`
	HighPrefix     string `validate:"required_if=Layout directory-name"`
	OriginalPrefix string
	EventYear      int `validate:"required_if=Layout metadata-file"`
	EventMonth     int `validate:"min=1,max=12"`

	UploadURL       string        `validate:"required,url"`
	APIKey          string        `validate:"required"`
	Channel         string        `validate:"required"`
	DefaultLanguage string        `validate:"required"`
	UploadTimeout   time.Duration `validate:"gt=0"`

	TempDir  string `validate:"required"`
	Clean    bool
	LogLevel string `validate:"oneof=debug info warn error"`

	// S3Bucket enables the package mirror when set.
	S3Bucket       string
	S3Region       string `validate:"required_with=S3Bucket"`
	S3BaseEndpoint string `validate:"omitempty,url"`
	S3AccessKey    string `validate:"required_with=S3SecretKey"`
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with the settings of the 2010 archive. The API
// key has no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.FTPHost = "videos-cdn.rmll.info"
	c.DialTimeout = 30 * time.Second
	c.RemoteRoot = "org/rmll/videos2010/videos/"
	c.URLTemplate = "http://videos-cdn.rmll.info/videos2010/videos/{media_id}/{filename}"

	c.Layout = LayoutMetadataFile
	c.MetadataFile = "titre.sh"
	c.ThumbnailFile = "titre.jpg"
	c.LowSuffix = "_small"
	c.HighSuffix = "_big"
	c.LowPrefix = "low"
	c.HighPrefix = "hd_ready"
	c.OriginalPrefix = "original"
	c.EventYear = 2010
	c.EventMonth = int(time.July)

	c.UploadURL = "http://video.rmll.info/api/v2/medias/add/"
	c.Channel = "2010 Bordeaux"
	c.DefaultLanguage = "fr"
	c.UploadTimeout = 5 * time.Minute

	c.TempDir = "/tmp/rmllpublisher"
	c.Clean = true
	c.LogLevel = "info"

	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. A leading "~" in TempDir is expanded.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.expandPaths()
	return cfg
}

func (c *Config) expandPaths() {
	if dir, err := homedir.Expand(c.TempDir); err == nil {
		c.TempDir = dir
	}
}
