package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"
)

// ============================================
// FILE SERVICE
// ============================================

// FileService проверяет и сохраняет загрузки: резюме, фото профиля, логотипы.
// Тип файла определяется по содержимому, а не по имени или заголовку клиента.
type FileService interface {
	// Upload принимает multipart-файл
	Upload(ctx context.Context, kind config.FileKind, file *multipart.FileHeader) (*dto.UploadResponse, error)
	// Store сохраняет поток с проверкой правил вида kind
	Store(ctx context.Context, kind config.FileKind, r io.Reader, size int64) (*dto.UploadResponse, error)
	// Copy создает независимую копию уже сохраненного файла
	Copy(ctx context.Context, kind config.FileKind, srcKey string) (*dto.UploadResponse, error)
	// Remove удаляет файл, ошибки только логируются
	Remove(ctx context.Context, keys ...string)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	URL(key string) string
}

type fileService struct {
	storage   storage.Storage
	rules     map[config.FileKind]config.FileRule
	processor *imageprocessor.Processor
	now       func() time.Time
}

func NewFileService(
	storage storage.Storage,
	rules map[config.FileKind]config.FileRule,
	processor *imageprocessor.Processor,
) FileService {
	return &fileService{
		storage:   storage,
		rules:     rules,
		processor: processor,
		now:       time.Now,
	}
}

func (s *fileService) Upload(ctx context.Context, kind config.FileKind, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil {
		return nil, apperrors.ValidationError(map[string]string{"file": "This field is required"})
	}
	src, err := file.Open()
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to read uploaded file")
	}
	defer src.Close()

	return s.Store(ctx, kind, src, file.Size)
}

func (s *fileService) Store(ctx context.Context, kind config.FileKind, r io.Reader, size int64) (*dto.UploadResponse, error) {
	rule, ok := s.rules[kind]
	if !ok {
		return nil, apperrors.NewBadRequestError("unknown file kind: " + string(kind))
	}
	if rule.MaxSize > 0 && size > rule.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	// Заголовок размера может врать, поэтому читаем не больше лимита + 1 байт
	limit := rule.MaxSize
	if limit <= 0 {
		limit = config.DefaultMaxUploadSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, apperrors.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, apperrors.ValidationError(map[string]string{"file": "File is empty"})
	}

	mt := mimetype.Detect(data)
	if !allowedType(mt, rule.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
			"detected": mt.String(),
			"allowed":  rule.AllowedTypes,
		})
	}

	if rule.IsImage && s.processor != nil {
		resized, changed, err := s.processor.Fit(data, mt.String())
		if err != nil {
			return nil, apperrors.ErrInvalidFileType.WithError(err)
		}
		if changed {
			data = resized
		}
	}

	key := s.buildKey(rule, mt.Extension())
	if err := s.storage.Save(ctx, key, bytes.NewReader(data), mt.String()); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxDebug(ctx, "File stored", "kind", kind, "key", key, "size", len(data))

	return &dto.UploadResponse{
		Key:         key,
		URL:         s.storage.URL(key),
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}, nil
}

func (s *fileService) Copy(ctx context.Context, kind config.FileKind, srcKey string) (*dto.UploadResponse, error) {
	src, err := s.storage.Open(ctx, srcKey)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	defer src.Close()

	return s.Store(ctx, kind, src, 0)
}

func (s *fileService) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete file", err, "key", key)
		}
	}
}

func (s *fileService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, key)
}

func (s *fileService) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.SignedURL(ctx, key, expiry)
}

func (s *fileService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.storage.URL(key)
}

// buildKey: resumes/2024/05/17/<uuid>.pdf или profile_pictures/<uuid>.png
func (s *fileService) buildKey(rule config.FileRule, ext string) string {
	name := uuid.New().String() + ext
	if rule.Dated {
		return path.Join(rule.Dir, s.now().Format("2006/01/02"), name)
	}
	return path.Join(rule.Dir, name)
}

func allowedType(mt *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}
