package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"ttms-analytics/config"
	"ttms-analytics/logging"
	"ttms-analytics/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOService - хранилище выгруженных отчётов
type MinIOService struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

func NewMinIOService(cfg config.ExportConfig) (*MinIOService, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOService{
		client: client,
		bucket: cfg.Bucket,
		urlTTL: cfg.PresignedURLTTL,
	}, nil
}

// EnsureBucket создаёт бакет экспорта, если его ещё нет
func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	logging.Info().Str("bucket", s.bucket).Msg("Created export bucket")
	return nil
}

// ListFiles возвращает выгруженные xlsx под префиксом, рекурсивно
func (s *MinIOService) ListFiles(ctx context.Context, prefix string) ([]models.ExportFile, error) {
	files := make([]models.ExportFile, 0)

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for object := range s.client.ListObjects(ctx, s.bucket, opts) {
		if object.Err != nil {
			return nil, object.Err
		}
		if !strings.HasSuffix(strings.ToLower(object.Key), ".xlsx") {
			continue
		}

		files = append(files, models.ExportFile{
			Name:         extractFileName(object.Key),
			Path:         object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         object.ETag,
			Version:      object.VersionID,
		})
	}

	return files, nil
}

// GetPresignedURL - ссылка на скачивание выгрузки; имя файла уходит в content-disposition ответа
func (s *MinIOService) GetPresignedURL(ctx context.Context, objectPath string) (*models.PresignedURLResponse, error) {
	fileName := extractFileName(objectPath)
	reqParams := url.Values{}
	reqParams.Set("response-content-disposition", contentDisposition(fileName))

	expiresAt := time.Now().Add(s.urlTTL)
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, s.urlTTL, reqParams)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export %s: %w", objectPath, err)
	}

	return &models.PresignedURLResponse{
		URL:       presignedURL.String(),
		ExpiresAt: expiresAt,
		FileName:  fileName,
		Path:      objectPath,
	}, nil
}

// ObjectExists: 404 от MinIO (нет ключа или бакета) - выгрузки нет, остальное - ошибка хранилища
func (s *MinIOService) ObjectExists(ctx context.Context, objectPath string) (bool, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, objectPath, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat export %s: %w", objectPath, err)
	}
	return true, nil
}

// UploadFile сохраняет книгу отчёта; имя содержит отметку времени, объект после записи не меняется
func (s *MinIOService) UploadFile(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, objectPath, reader, size, minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: contentDisposition(extractFileName(objectPath)),
		CacheControl:       "private, max-age=86400, immutable",
	})
	if err != nil {
		return fmt.Errorf("failed to upload export %s: %w", objectPath, err)
	}
	logging.Ctx(ctx).Info().Str("object", objectPath).Int64("size", info.Size).Msg("Export uploaded")
	return nil
}

func extractFileName(objectPath string) string {
	return path.Base(objectPath)
}

func contentDisposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
