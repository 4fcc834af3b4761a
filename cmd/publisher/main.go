package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/talkpublisher/internal/buildinfo"
	"github.com/dmitrijs2005/talkpublisher/internal/config"
	"github.com/dmitrijs2005/talkpublisher/internal/logging"
	"github.com/dmitrijs2005/talkpublisher/internal/mirror"
	"github.com/dmitrijs2005/talkpublisher/internal/publisher"
	"github.com/dmitrijs2005/talkpublisher/internal/remote"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, cfg); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewTextLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	creds := remote.Credentials{User: cfg.FTPUser, Password: cfg.FTPPassword}
	client, err := remote.Dial(ctx, cfg.FTPHost, creds, remote.NewFTPDialer(cfg.DialTimeout), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var m mirror.Mirror = mirror.Nop{}
	if cfg.S3Bucket != "" {
		m, err = mirror.NewS3Mirror(ctx, mirror.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			return err
		}
	}

	p, err := publisher.New(cfg, client, m, logger)
	if err != nil {
		return err
	}

	sum, err := p.Publish(ctx)
	logger.Info(ctx, "summary", "run_id", p.RunID(), "result", sum.String())
	return err
}
