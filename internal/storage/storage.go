package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	appconfig "involinks-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore wraps the S3-compatible bucket holding registration
// documents and generated invoice PDFs. Works against AWS S3 and
// Cloudflare R2 (custom endpoint).
type ObjectStore struct {
	client *s3.Client
	bucket string
}

// New builds an ObjectStore from the storage config. Returns an error
// when credentials are missing so callers can degrade to DB-only mode.
func New(cfg *appconfig.Config) (*ObjectStore, error) {
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	region := cfg.Storage.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	log.Printf("[Storage] Object store ready (bucket=%s)", cfg.Storage.Bucket)
	return &ObjectStore{client: client, bucket: cfg.Storage.Bucket}, nil
}

// Put uploads an object and returns its key.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Get downloads an object by key.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Delete removes an object by key.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// DocumentKey builds the storage key for a registration document.
func DocumentKey(companyID int, documentType, fileName string) string {
	return fmt.Sprintf("documents/%d/%s/%d_%s", companyID, documentType, time.Now().Unix(), fileName)
}

// InvoicePDFKey builds the storage key for a generated invoice PDF.
func InvoicePDFKey(companyID int, invoiceNumber string) string {
	return fmt.Sprintf("invoices/%d/%s.pdf", companyID, invoiceNumber)
}
