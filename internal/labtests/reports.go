package labtests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// S3API is the subset of the S3 client used by ReportStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ReportStore keeps uploaded lab report documents in S3. If bucket is
// empty, uploads are skipped and orders complete with a summary only.
type ReportStore struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

func NewReportStore(s3Client S3API, bucket string, logger *logging.Logger) *ReportStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportStore{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true when report storage is configured.
func (r *ReportStore) Enabled() bool {
	return r != nil && r.bucket != "" && r.s3Client != nil
}

// Upload stores a report document and returns its object key.
func (r *ReportStore) Upload(ctx context.Context, orderID string, contentType string, body []byte) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("reports/v1/by-date/%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), orderID)

	_, err := r.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("labtests: s3 put %s: %w", key, err)
	}
	r.logger.Info("uploaded lab report", "order_id", orderID, "s3_key", key, "bytes", len(body))
	return key, nil
}

// Download fetches a stored report by object key.
func (r *ReportStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	if !r.Enabled() {
		return nil, "", fmt.Errorf("labtests: report storage is not configured")
	}
	out, err := r.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("labtests: s3 get %s: %w", key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("labtests: failed to read report body: %w", err)
	}
	return data, aws.ToString(out.ContentType), nil
}
