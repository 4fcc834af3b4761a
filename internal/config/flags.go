package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/talkpublisher/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-h string   FTP host
//	-r string   remote root
//	-l string   layout
//	-u string   upload URL
//	-k string   API key
//	-t string   scratch directory
//	-clean      cleanup toggle (use -clean=false to keep scratch files)
//	-v          debug logging
//
// Note: os.Args is filtered with flagx.FilterArgs first so the -c/-config
// flags handled by parseJson do not break this parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-h", "-r", "-l", "-u", "-k", "-t"},
		"-clean", "-v")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.FTPHost, "h", cfg.FTPHost, "FTP host of the archive")
	fs.StringVar(&cfg.RemoteRoot, "r", cfg.RemoteRoot, "remote root holding one directory per talk")
	fs.StringVar(&cfg.Layout, "l", cfg.Layout, "archive layout: metadata-file or directory-name")
	fs.StringVar(&cfg.UploadURL, "u", cfg.UploadURL, "media server upload URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "media server API key")
	fs.StringVar(&cfg.TempDir, "t", cfg.TempDir, "scratch directory")
	fs.BoolVar(&cfg.Clean, "clean", cfg.Clean, "remove scratch files after each upload attempt")
	verbose := fs.Bool("v", false, "log every remote command")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *verbose {
		cfg.LogLevel = "debug"
	}
}
