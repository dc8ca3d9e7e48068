package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var S3Client *s3.Client

// S3Configured reports whether object storage credentials are present.
// Without S3 the service still analyzes uploads; it just cannot archive the
// raw file or serve re-analysis requests.
func S3Configured() bool {
	return os.Getenv("S3_ACCESS_KEY_ID") != ""
}

func InitS3(logger *zap.Logger) error {
	endpoint := os.Getenv("S3_ENDPOINT_URL")
	accessKeyID := MustGetEnv("S3_ACCESS_KEY_ID")
	secretAccessKey := MustGetEnv("S3_SECRET_ACCESS_KEY")
	region := GetEnvOrDefault("S3_REGION", "us-east-1")

	sugar := logger.Sugar()
	sugar.Info("Initializing transcript archive storage")

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	s3Options := []func(*s3.Options){
		func(o *s3.Options) {
			o.UsePathStyle = true
		},
	}

	if endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
		sugar.Info("Using custom storage endpoint configuration")
	}

	S3Client = s3.NewFromConfig(cfg, s3Options...)

	buckets, err := S3Client.ListBuckets(context.Background(), &s3.ListBucketsInput{})
	if err == nil {
		sugar.Infow("Transcript archive storage initialized",
			"bucket_count", len(buckets.Buckets))
	}
	return err
}

// Bucket returns the configured transcript archive bucket.
func Bucket() string {
	return GetEnvOrDefault("AWS_BUCKET", "transcript-archive")
}

// ArchiveTranscript stores the raw upload bytes so a later re-analysis can
// fetch them without the caller re-uploading.
func ArchiveTranscript(ctx context.Context, data []byte, key string) error {
	if S3Client == nil {
		return errors.New("s3 client is nil; call InitS3 first")
	}
	_, err := S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(Bucket()),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put object failed: %w", err)
	}
	return nil
}

// FetchTranscript downloads an archived transcript, retrying transient
// failures a few times before giving up.
func FetchTranscript(ctx context.Context, bucket, key string) ([]byte, error) {
	if S3Client == nil {
		return nil, errors.New("s3 client is nil; call InitS3 first")
	}

	maxAttempts := getRetryMaxAttempts()
	retryDelay := getRetryDelaySeconds()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := S3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(time.Duration(retryDelay) * time.Second)
			}
			continue
		}

		data, err := io.ReadAll(result.Body)
		result.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(time.Duration(retryDelay) * time.Second)
			}
			continue
		}

		return data, nil
	}

	return nil, fmt.Errorf("failed to download object after %d attempts: %w", maxAttempts, lastErr)
}

func getRetryMaxAttempts() int {
	maxAttemptsStr := GetEnvOrDefault("S3_RETRY_MAX_ATTEMPTS", "3")
	maxAttempts, err := strconv.Atoi(maxAttemptsStr)
	if err != nil || maxAttempts < 1 {
		return 3
	}
	return maxAttempts
}

func getRetryDelaySeconds() int {
	delayStr := GetEnvOrDefault("S3_RETRY_DELAY_SECONDS", "20")
	delay, err := strconv.Atoi(delayStr)
	if err != nil || delay < 0 {
		return 20
	}
	return delay
}
