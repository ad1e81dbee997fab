package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/pkg/config"
)

// objectAPI subconjunto de *s3.Client usado por S3Store (reemplazable en tests).
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implementa ports.ImageStore sobre S3 o un servicio compatible (MinIO, R2).
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	limits  Limits
}

// NewS3Store crea el cliente S3 desde la configuración. Sin claves usa la cadena de credenciales por defecto (IAM).
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(client objectAPI, cfg config.StorageConfig) *S3Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: base,
		limits:  Limits{MaxBytes: int64(cfg.MaxUploadMB) << 20, MaxWidth: cfg.MaxWidth},
	}
}

// Put valida, redimensiona y sube la imagen; devuelve la URL pública.
func (s *S3Store) Put(ctx context.Context, folder string, up ports.Upload) (string, error) {
	p, err := prepareImage(folder, up, s.limits)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(p.key),
		Body:        bytes.NewReader(p.data),
		ContentType: aws.String(p.contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", p.key, err)
	}
	return s.baseURL + "/" + p.key, nil
}

// Delete borra el objeto si la URL pertenece a este bucket; URLs externas se ignoran.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

var _ ports.ImageStore = (*S3Store)(nil)
