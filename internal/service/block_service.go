package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// ErrBlockNotFound is returned when a block does not exist.
var ErrBlockNotFound = errors.New("block not found")

// BlockService manages blocks outside the page reconcile path, for admin
// tooling that edits a single block in place.
type BlockService interface {
	List(ctx context.Context, page, pageSize int, pageID uint, blockType, status string) ([]dto.BlockResponse, dto.PaginationMeta, error)
	Get(ctx context.Context, id uint) (dto.BlockResponse, error)
	Create(ctx context.Context, pageID uint, req dto.BlockInput) (dto.BlockResponse, error)
	Update(ctx context.Context, id uint, req dto.BlockInput) (dto.BlockResponse, error)
	Delete(ctx context.Context, id uint) error
}

type blockService struct {
	repo      repository.BlockRepository
	pages     repository.PageRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewBlockService constructs the block service.
func NewBlockService(repo repository.BlockRepository, pages repository.PageRepository, logger zerolog.Logger) BlockService {
	return &blockService{
		repo:      repo,
		pages:     pages,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "block_service").Logger(),
	}
}

func (s *blockService) List(ctx context.Context, page, pageSize int, pageID uint, blockType, status string) ([]dto.BlockResponse, dto.PaginationMeta, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	blocks, total, err := s.repo.List(ctx, repository.BlockFilter{
		Page:     page,
		PageSize: pageSize,
		PageID:   pageID,
		Type:     blockType,
		Status:   status,
	})
	if err != nil {
		return nil, dto.PaginationMeta{}, fmt.Errorf("list blocks: %w", err)
	}

	responses := make([]dto.BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		responses = append(responses, dto.ToBlockResponse(b))
	}
	return responses, dto.NewPaginationMeta(page, pageSize, total), nil
}

func (s *blockService) Get(ctx context.Context, id uint) (dto.BlockResponse, error) {
	block, err := s.findBlock(ctx, id)
	if err != nil {
		return dto.BlockResponse{}, err
	}
	return dto.ToBlockResponse(*block), nil
}

func (s *blockService) Create(ctx context.Context, pageID uint, req dto.BlockInput) (dto.BlockResponse, error) {
	if _, err := s.pages.FindByID(ctx, pageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlockResponse{}, ErrPageNotFound
		}
		return dto.BlockResponse{}, fmt.Errorf("find page: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.BlockStatusActive
	}
	block := &models.Block{
		PageID:     pageID,
		Type:       req.Type,
		Title:      req.Title,
		Content:    s.sanitizer.Sanitize(req.Content),
		OrderIndex: resolveOrderIndex(req.OrderIndex, 0),
		Status:     status,
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return dto.BlockResponse{}, fmt.Errorf("create block: %w", err)
	}
	return dto.ToBlockResponse(*block), nil
}

func (s *blockService) Update(ctx context.Context, id uint, req dto.BlockInput) (dto.BlockResponse, error) {
	block, err := s.findBlock(ctx, id)
	if err != nil {
		return dto.BlockResponse{}, err
	}

	block.Type = req.Type
	block.Title = req.Title
	block.Content = s.sanitizer.Sanitize(req.Content)
	if req.OrderIndex != nil {
		block.OrderIndex = *req.OrderIndex
	}
	if req.Status != "" {
		block.Status = req.Status
	}

	if err := s.repo.Update(ctx, block); err != nil {
		return dto.BlockResponse{}, fmt.Errorf("update block: %w", err)
	}
	return dto.ToBlockResponse(*block), nil
}

func (s *blockService) Delete(ctx context.Context, id uint) error {
	if _, err := s.findBlock(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

func (s *blockService) findBlock(ctx context.Context, id uint) (*models.Block, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("find block: %w", err)
	}
	return block, nil
}
