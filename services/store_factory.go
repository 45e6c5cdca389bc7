package services

import (
	"context"
	"fmt"

	"playtest_server/config"
	"playtest_server/models"
)

// NewStore builds the backing store selected by cfg.Backend
func NewStore(ctx context.Context, cfg *config.Config) (PlaytestStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case models.BackendDynamo:
		client, err := InitializeDynamoDBClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return &DynamoService{Client: client, PageSize: int32(cfg.PageSize)}, nil
	case models.BackendAirtable:
		return NewAirtableService(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableAPIBase, cfg.PageSize), nil
	}
	return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
}

// NewArchiver returns an S3 report archive when a bucket is configured, nil otherwise
func NewArchiver(ctx context.Context, cfg *config.Config) (ReportArchive, error) {
	if cfg.S3BucketName == "" {
		return nil, nil
	}
	client, err := InitializeS3Client(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return NewS3Service(client, cfg.S3BucketName), nil
}
