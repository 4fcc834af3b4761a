// Package config loads runtime configuration for the publisher.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), matching the 2010
//     archive layout.
//  2. Optional JSON file selected with -c or -config. Keys missing from the
//     file keep their current value.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-h string   FTP host of the archive
//	-r string   remote root holding one directory per talk
//	-l string   archive layout: metadata-file | directory-name
//	-u string   media server upload URL
//	-k string   media server API key
//	-t string   scratch directory ("~" is expanded)
//	-clean      remove scratch files after each upload attempt
//	-v          log every remote command
//
// # JSON schema
//
// Durations accept either strings like "30s" or integer nanoseconds:
//
//	{
//	  "ftp_host": "videos-cdn.example.org",
//	  "remote_root": "org/rmll/videos2014/orga/Amphi07/",
//	  "layout": "directory-name",
//	  "url_template": "http://videos-cdn.example.org/videos2014/orga/Amphi07/{media_id}/{filename}",
//	  "channel": "2014 Montpellier",
//	  "api_key": "...",
//	  "dial_timeout": "30s"
//	}
//
// Call (*Config).Validate before use; LoadConfig does not validate.
package config
