package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
	"github.com/vireo-cms/vireo-api/pkg/cloudinary"
)

// Media service sentinels.
var (
	ErrMediaNotFound        = errors.New("media item not found")
	ErrUploadTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// MediaStorage abstracts the upload backend. *cloudinary.Service satisfies it.
type MediaStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// MediaService manages the media library.
type MediaService interface {
	List(ctx context.Context, page, pageSize int, mediaType, search string) (dto.MediaListResponse, error)
	Get(ctx context.Context, id uint) (dto.MediaResponse, error)
	Upload(ctx context.Context, file *multipart.FileHeader) (dto.MediaResponse, error)
	UpdateMeta(ctx context.Context, id uint, req dto.UpdateMediaRequest) (dto.MediaResponse, error)
	Delete(ctx context.Context, id uint) error
	RemoveByURL(ctx context.Context, url string) error
}

type mediaService struct {
	repo    repository.MediaRepository
	storage MediaStorage
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewMediaService constructs the media service.
func NewMediaService(repo repository.MediaRepository, storage MediaStorage, maxSizeMB int, logger zerolog.Logger) MediaService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &mediaService{
		repo:    repo,
		storage: storage,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "media_service").Logger(),
		tracer:  otel.Tracer("github.com/vireo-cms/vireo-api/internal/service/media"),
	}
}

func (s *mediaService) List(ctx context.Context, page, pageSize int, mediaType, search string) (dto.MediaListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 24
	}

	items, total, err := s.repo.List(ctx, repository.MediaFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     mediaType,
		Search:   search,
	})
	if err != nil {
		return dto.MediaListResponse{}, fmt.Errorf("list media: %w", err)
	}

	responses := make([]dto.MediaResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ToMediaResponse(item))
	}
	return dto.MediaListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *mediaService) Get(ctx context.Context, id uint) (dto.MediaResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return dto.MediaResponse{}, err
	}
	return dto.ToMediaResponse(*item), nil
}

func (s *mediaService) Upload(ctx context.Context, file *multipart.FileHeader) (dto.MediaResponse, error) {
	ctx, span := s.tracer.Start(ctx, "media.upload")
	defer span.End()
	span.SetAttributes(attribute.Int64("media.max_bytes", s.maxSize))

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.MediaResponse{}, err
	}
	span.SetAttributes(
		attribute.String("media.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("media.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.MediaResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.MediaResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.MediaResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.MediaResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	mediaType := mediaTypeFor(mime.String())
	span.SetAttributes(attribute.String("media.detected_mime", mime.String()))
	if mediaType == "" {
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.MediaResponse{}, ErrUploadTypeNotAllowed
	}

	result, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.MediaResponse{}, fmt.Errorf("store file: %w", err)
	}

	item := &models.MediaItem{
		Name:         strings.TrimSpace(file.Filename),
		FileID:       result.PublicID,
		URL:          result.SecureURL,
		Type:         mediaType,
		MimeType:     mime.String(),
		SizeBytes:    int64(buf.Len()),
		OriginalName: file.Filename,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.MediaResponse{}, fmt.Errorf("create media item: %w", err)
	}

	span.SetStatus(codes.Ok, "stored")
	return dto.ToMediaResponse(*item), nil
}

func (s *mediaService) UpdateMeta(ctx context.Context, id uint, req dto.UpdateMediaRequest) (dto.MediaResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return dto.MediaResponse{}, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.IsDefaultImage != nil {
		item.IsDefaultImage = *req.IsDefaultImage
	}
	if req.InUse != nil {
		item.InUse = *req.InUse
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return dto.MediaResponse{}, fmt.Errorf("update media item: %w", err)
	}
	return dto.ToMediaResponse(*item), nil
}

func (s *mediaService) Delete(ctx context.Context, id uint) error {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return err
	}

	if s.storage != nil && item.FileID != "" {
		if err := s.storage.Destroy(ctx, item.FileID); err != nil {
			s.logger.Warn().Err(err).Str("file_id", item.FileID).Msg("failed to remove stored file")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media item: %w", err)
	}
	return nil
}

// RemoveByURL deletes the media row (and stored file) matching the URL.
// Unknown URLs are ignored: submission payloads may reference external
// assets this API never stored.
func (s *mediaService) RemoveByURL(ctx context.Context, url string) error {
	item, err := s.repo.FindByURL(ctx, url)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find media by url: %w", err)
	}
	return s.Delete(ctx, item.ID)
}

func (s *mediaService) findItem(ctx context.Context, id uint) (*models.MediaItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("find media item: %w", err)
	}
	return item, nil
}

func mediaTypeFor(mime string) string {
	lower := strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(lower, "image/"):
		return "image"
	case strings.HasPrefix(lower, "video/"):
		return "video"
	case lower == "application/pdf":
		return "document"
	default:
		return ""
	}
}
