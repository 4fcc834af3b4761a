package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/talkpublisher/internal/flagx"
	"github.com/dmitrijs2005/talkpublisher/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "30s".
type JsonConfig struct {
	FTPHost         string         `json:"ftp_host"`
	FTPUser         string         `json:"ftp_user"`
	FTPPassword     string         `json:"ftp_password"`
	DialTimeout     timex.Duration `json:"dial_timeout"`
	RemoteRoot      string         `json:"remote_root"`
	URLTemplate     string         `json:"url_template"`
	Layout          string         `json:"layout"`
	MetadataFile    string         `json:"metadata_file"`
	ThumbnailFile   string         `json:"thumbnail_file"`
	LowSuffix       string         `json:"low_suffix"`
	HighSuffix      string         `json:"high_suffix"`
	LowPrefix       string         `json:"low_prefix"`
	HighPrefix      string         `json:"high_prefix"`
	OriginalPrefix  string         `json:"original_prefix"`
	EventYear       int            `json:"event_year"`
	EventMonth      int            `json:"event_month"`
	UploadURL       string         `json:"upload_url"`
	APIKey          string         `json:"api_key"`
	Channel         string         `json:"channel"`
	DefaultLanguage string         `json:"default_language"`
	UploadTimeout   timex.Duration `json:"upload_timeout"`
	TempDir         string         `json:"temp_dir"`
	Clean           bool           `json:"clean"`
	LogLevel        string         `json:"log_level"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Prefix        string         `json:"s3_prefix"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. The DTO
// is seeded from cfg, so keys absent from the file keep their value. Read
// and unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func toJson(c *Config) JsonConfig {
	return JsonConfig{
		FTPHost:         c.FTPHost,
		FTPUser:         c.FTPUser,
		FTPPassword:     c.FTPPassword,
		DialTimeout:     timex.Duration{Duration: c.DialTimeout},
		RemoteRoot:      c.RemoteRoot,
		URLTemplate:     c.URLTemplate,
		Layout:          c.Layout,
		MetadataFile:    c.MetadataFile,
		ThumbnailFile:   c.ThumbnailFile,
		LowSuffix:       c.LowSuffix,
		HighSuffix:      c.HighSuffix,
		LowPrefix:       c.LowPrefix,
		HighPrefix:      c.HighPrefix,
		OriginalPrefix:  c.OriginalPrefix,
		EventYear:       c.EventYear,
		EventMonth:      c.EventMonth,
		UploadURL:       c.UploadURL,
		APIKey:          c.APIKey,
		Channel:         c.Channel,
		DefaultLanguage: c.DefaultLanguage,
		UploadTimeout:   timex.Duration{Duration: c.UploadTimeout},
		TempDir:         c.TempDir,
		Clean:           c.Clean,
		LogLevel:        c.LogLevel,
		S3Bucket:        c.S3Bucket,
		S3Region:        c.S3Region,
		S3BaseEndpoint:  c.S3BaseEndpoint,
		S3AccessKey:     c.S3AccessKey,
		S3SecretKey:     c.S3SecretKey,
		S3Prefix:        c.S3Prefix,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.FTPHost = jc.FTPHost
	c.FTPUser = jc.FTPUser
	c.FTPPassword = jc.FTPPassword
	c.DialTimeout = jc.DialTimeout.Duration
	c.RemoteRoot = jc.RemoteRoot
	c.URLTemplate = jc.URLTemplate
	c.Layout = jc.Layout
	c.MetadataFile = jc.MetadataFile
	c.ThumbnailFile = jc.ThumbnailFile
	c.LowSuffix = jc.LowSuffix
	c.HighSuffix = jc.HighSuffix
	c.LowPrefix = jc.LowPrefix
	c.HighPrefix = jc.HighPrefix
	c.OriginalPrefix = jc.OriginalPrefix
	c.EventYear = jc.EventYear
	c.EventMonth = jc.EventMonth
	c.UploadURL = jc.UploadURL
	c.APIKey = jc.APIKey
	c.Channel = jc.Channel
	c.DefaultLanguage = jc.DefaultLanguage
	c.UploadTimeout = jc.UploadTimeout.Duration
	c.TempDir = jc.TempDir
	c.Clean = jc.Clean
	c.LogLevel = jc.LogLevel
	c.S3Bucket = jc.S3Bucket
	c.S3Region = jc.S3Region
	c.S3BaseEndpoint = jc.S3BaseEndpoint
	c.S3AccessKey = jc.S3AccessKey
	c.S3SecretKey = jc.S3SecretKey
	c.S3Prefix = jc.S3Prefix
}
