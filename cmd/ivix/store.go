package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"ivix-ratings/internal/config"
	"ivix-ratings/internal/storage"
)

func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage; state is lost on exit")
		return storage.NewMemoryStore(), nil

	case config.BackendSQLite:
		db, err := storage.OpenSQLite(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		store := storage.NewSQLiteStore(db)
		if err := store.Init(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return store, nil

	case config.BackendS3:
		return buildS3Store(ctx, cfg, logger)

	case config.BackendGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		store, err := storage.NewGCSStore(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		logger.Infof("using gcs bucket %s", cfg.Storage.Bucket)
		return store, nil

	case config.BackendRedis:
		client := storage.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		store := storage.NewRedisStore(client, cfg.Storage.KeyPrefix)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		logger.Infof("using redis at %s (db %d)", cfg.Redis.Addr, cfg.Redis.DB)
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func buildS3Store(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Store(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}
