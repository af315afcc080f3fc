package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Options regroupe la configuration du bucket
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// S3Uploader envoie les images vers un bucket S3 (ou compatible)
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Uploader crée le client S3; un endpoint personnalisé active le path-style
func NewS3Uploader(opts S3Options, logger *zap.Logger) (*S3Uploader, error) {
	if opts.Bucket == "" || opts.Region == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("%w: S3_BUCKET, S3_REGION, S3_ACCESS_KEY_ID et S3_SECRET_ACCESS_KEY sont requis", ErrNotConfigured)
	}

	s3Opts := s3.Options{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	if opts.Endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(strings.TrimRight(opts.Endpoint, "/"))
		s3Opts.UsePathStyle = true
	}

	return &S3Uploader{
		client:        s3.New(s3Opts),
		bucket:        opts.Bucket,
		publicBaseURL: publicBaseURL(opts),
		logger:        logger,
	}, nil
}

func publicBaseURL(opts S3Options) string {
	if opts.PublicBaseURL != "" {
		return strings.TrimRight(opts.PublicBaseURL, "/")
	}
	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}

// objectKey construit la clé gallery/<uuid><ext>
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "gallery/" + uuid.NewString() + ext
}

// Upload envoie le fichier et retourne son URL publique
func (u *S3Uploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	// Corps en mémoire: le SDK exige un flux rejouable pour signer la charge utile
	payload, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("erreur lors de la lecture du fichier: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("erreur lors de l'envoi vers S3: %w", err)
	}

	url := u.publicBaseURL + "/" + key
	u.logger.Info("✅ Upload S3 réussi", zap.String("key", key), zap.Int("bytes", len(payload)))
	return url, nil
}
