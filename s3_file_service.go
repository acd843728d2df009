package inkwell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3FileService struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	expireSeconds int
}

func NewS3FileService(ctx context.Context, bucket, accessKey, secretKey, region string, expireSeconds int) (*S3FileService, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3FileService{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		expireSeconds: expireSeconds,
	}, nil
}

func (s *S3FileService) IsExists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %v", err)
	}
	return true, nil
}

func (s *S3FileService) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %v", path, err)
	}
	return nil
}

func (s *S3FileService) GetURL(ctx context.Context, path string) (string, error) {
	return s.GetURLWithExpiry(ctx, path, s.expireSeconds)
}

func (s *S3FileService) GetURLWithExpiry(ctx context.Context, path string, expireSeconds int) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(time.Duration(expireSeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return req.URL, nil
}

func (s *S3FileService) GetUploadURL(ctx context.Context, path string) (string, error) {
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(time.Duration(s.expireSeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("failed to generate upload URL: %v", err)
	}
	return req.URL, nil
}
