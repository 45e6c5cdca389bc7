package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"

	"playtest_server/models"
)

// ReportArchiver stores a finished run report somewhere durable
type ReportArchiver interface {
	ArchiveRunReport(ctx context.Context, report *models.RunReport) (string, error)
}

// ReportLinker hands out short-lived read links for archived reports
type ReportLinker interface {
	ReportURL(ctx context.Context, key string) (string, error)
}

// ReportArchive is a report store that can also link to what it stored
type ReportArchive interface {
	ReportArchiver
	ReportLinker
}

// S3PutAPI is the subset of the S3 client used for archiving
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PresignAPI is the subset of the presign client used for report links
type S3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

const (
	reportPrefix    = "playtest-runs/"
	reportURLExpiry = 15 * time.Minute
)

// ErrNotAReport is returned when a link is requested for a key outside the report prefix
var ErrNotAReport = errors.New("key is not a playtest run report")

// S3Service uploads run reports to a bucket
type S3Service struct {
	Client    S3PutAPI
	Presigner S3PresignAPI
	Bucket    string
}

// NewS3Service builds an S3Service with a presign client on top of client
func NewS3Service(client *s3.Client, bucket string) *S3Service {
	return &S3Service{Client: client, Presigner: s3.NewPresignClient(client), Bucket: bucket}
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// ReportKey returns the object key for a run report
func ReportKey(report *models.RunReport) string {
	return reportPrefix + report.StartedAt.Format("20060102150405") + "-" + report.RunID + ".json"
}

// ArchiveRunReport uploads the report as JSON and returns its key
func (s *S3Service) ArchiveRunReport(ctx context.Context, report *models.RunReport) (string, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}

	key := ReportKey(report)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload run report to bucket '%s': %w", s.Bucket, err)
	}
	return key, nil
}

// ReportURL generates a presigned URL for reading an archived report
func (s *S3Service) ReportURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, reportPrefix) || strings.Contains(key, "..") {
		return "", ErrNotAReport
	}
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(reportURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign report '%s': %w", key, err)
	}
	return req.URL, nil
}
