package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// ErrFaqNotFound is returned when an FAQ entry does not exist.
var ErrFaqNotFound = errors.New("faq entry not found")

// FaqService manages ordered FAQ entries.
type FaqService interface {
	ListPublic(ctx context.Context) ([]dto.FaqResponse, error)
	ListAll(ctx context.Context) ([]dto.FaqResponse, error)
	Create(ctx context.Context, req dto.FaqRequest) (dto.FaqResponse, error)
	Update(ctx context.Context, id uint, req dto.FaqRequest) (dto.FaqResponse, error)
	Delete(ctx context.Context, id uint) error
}

type faqService struct {
	repo   repository.FaqRepository
	logger zerolog.Logger
}

// NewFaqService constructs the FAQ service.
func NewFaqService(repo repository.FaqRepository, logger zerolog.Logger) FaqService {
	return &faqService{
		repo:   repo,
		logger: logger.With().Str("component", "faq_service").Logger(),
	}
}

func (s *faqService) ListPublic(ctx context.Context) ([]dto.FaqResponse, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	return toFaqResponses(items), nil
}

func (s *faqService) ListAll(ctx context.Context) ([]dto.FaqResponse, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	return toFaqResponses(items), nil
}

func (s *faqService) Create(ctx context.Context, req dto.FaqRequest) (dto.FaqResponse, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}
	item := &models.FaqItem{
		Question:   req.Question,
		Answer:     req.Answer,
		OrderIndex: req.OrderIndex,
		Status:     status,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return dto.FaqResponse{}, fmt.Errorf("create faq entry: %w", err)
	}
	return dto.ToFaqResponse(*item), nil
}

func (s *faqService) Update(ctx context.Context, id uint, req dto.FaqRequest) (dto.FaqResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FaqResponse{}, ErrFaqNotFound
		}
		return dto.FaqResponse{}, fmt.Errorf("find faq entry: %w", err)
	}

	item.Question = req.Question
	item.Answer = req.Answer
	item.OrderIndex = req.OrderIndex
	if req.Status != "" {
		item.Status = req.Status
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return dto.FaqResponse{}, fmt.Errorf("update faq entry: %w", err)
	}
	return dto.ToFaqResponse(*item), nil
}

func (s *faqService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFaqNotFound
		}
		return fmt.Errorf("find faq entry: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete faq entry: %w", err)
	}
	return nil
}

func toFaqResponses(items []models.FaqItem) []dto.FaqResponse {
	responses := make([]dto.FaqResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ToFaqResponse(item))
	}
	return responses
}
