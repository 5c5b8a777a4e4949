package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	sc "github.com/dmitrijs2005/usersapi/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

const presignExpiry = 15 * time.Minute

// UploadedFile describes a stored object.
type UploadedFile struct {
	Filename string
	Format   string
	Size     int64
	Key      string
}

// FileService stores user uploads in an S3-compatible bucket.
type FileService struct {
	config *sc.Config
	log    logging.Logger
	now    func() time.Time
}

func NewFileService(config *sc.Config, log logging.Logger) *FileService {
	return &FileService{config: config, log: log.With("component", "file_service"), now: time.Now}
}

// StorageKey returns a fresh object key under the user's prefix, sharded by
// upload date.
func (s *FileService) StorageKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *FileService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload writes body to the bucket. size must be the exact body length;
// anything above MaxUploadSize is common.ErrorValidation.
func (s *FileService) Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (*UploadedFile, error) {
	if s.config.MaxUploadSize > 0 && size > s.config.MaxUploadSize {
		return nil, common.ErrorValidation
	}

	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Error(ctx, "s3 client", "error", err)
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := s.StorageKey(userID)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		Metadata:      map[string]string{"filename": filename},
	})
	if err != nil {
		s.log.Error(ctx, "put object", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "file uploaded", "user_id", userID, "key", key, "size", size)
	return &UploadedFile{Filename: filename, Format: contentType, Size: size, Key: key}, nil
}

// PresignUpload returns a new key and a presigned PUT URL for it.
func (s *FileService) PresignUpload(ctx context.Context, userID string) (string, string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Error(ctx, "s3 client", "error", err)
		return "", "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := s.StorageKey(userID)

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.log.Error(ctx, "presign put", "key", key, "error", err)
		return "", "", common.ErrorInternal
	}

	return key, req.URL, nil
}
