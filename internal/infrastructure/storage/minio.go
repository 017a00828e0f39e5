package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/callscribe-team/callscribe/pkg/config"
)

// TranscriptArchive stores raw provider transcript payloads in object
// storage before the analysis phase. Archival is best-effort: callers log
// failures but never fail the pipeline on them.
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates a MinIO-backed transcript archive
func NewTranscriptArchive(cfg *config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx := context.Background()
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archive, nil
}

// ensureBucket creates the archive bucket if it does not exist
func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// StoreRawTranscript archives the raw transcript payload for a bot and
// returns the object path
func (a *TranscriptArchive) StoreRawTranscript(ctx context.Context, botID string, payload []byte) (string, error) {
	objectName := fmt.Sprintf("raw/%s/transcript.json", botID)

	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive transcript for bot %s: %w", botID, err)
	}

	return fmt.Sprintf("%s/%s", a.bucket, objectName), nil
}
