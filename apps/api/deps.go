package main

import (
	"context"
	"fmt"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/relay"
	archivesvc "github.com/akademflow/backend/services/archive"
	dedupsvc "github.com/akademflow/backend/services/dedup"
	messagingsvc "github.com/akademflow/backend/services/messaging"
)

// setUpTransport returns the Telegram transport, or the console one when no bot token is configured.
func setUpTransport(conf *core.Config, logger core.Logger) core.DocumentTransport {
	transport, err := messagingsvc.NewTelegramService(conf)
	if err != nil {
		logger.Warn(fmt.Sprintf("telegram disabled, documents are printed to the console: %v", err))
		return messagingsvc.NewConsoleService()
	}
	return transport
}

// setUpRelayOptions wires the optional upload de-dup guard (redis) and archive (S3).
func setUpRelayOptions(ctx context.Context, conf *core.Config) ([]relay.Option, func(), error) {
	var (
		opts    []relay.Option
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if conf.Redis.URL != "" {
		guard, err := dedupsvc.NewRedisGuard(ctx, conf.Redis.URL, conf.Redis.DedupTTL)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, relay.WithGuard(guard))
		closers = append(closers, guard.Close)
	}

	if conf.Archive.Endpoint != "" {
		archive, err := archivesvc.NewMinioArchive(conf)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		if err = archive.EnsureBucket(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		opts = append(opts, relay.WithArchiver(archive))
	}

	return opts, closeAll, nil
}
