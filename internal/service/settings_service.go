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

// ErrPolicyUnknownKind is returned for policy kinds outside the known set.
var ErrPolicyUnknownKind = errors.New("unknown policy kind")

// SettingsService manages the site settings singleton and policy documents.
type SettingsService interface {
	GetSettings(ctx context.Context) (dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (dto.SettingsResponse, error)
	GetPolicy(ctx context.Context, kind string) (dto.PolicyResponse, error)
	UpdatePolicy(ctx context.Context, kind, content string) (dto.PolicyResponse, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger.With().Str("component", "settings_service").Logger(),
	}
}

// GetSettings returns the settings row, creating a default one when the
// table is still empty.
func (s *settingsService) GetSettings(ctx context.Context) (dto.SettingsResponse, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingsResponse{}, fmt.Errorf("get settings: %w", err)
		}
		settings = &models.SiteSetting{Title: "Vireo"}
		if err := s.repo.SaveSettings(ctx, settings); err != nil {
			return dto.SettingsResponse{}, fmt.Errorf("create default settings: %w", err)
		}
	}
	return dto.ToSettingsResponse(*settings), nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (dto.SettingsResponse, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingsResponse{}, fmt.Errorf("get settings: %w", err)
		}
		settings = &models.SiteSetting{Title: "Vireo"}
	}

	if req.Title != nil {
		settings.Title = *req.Title
	}
	if req.Description != nil {
		settings.Description = *req.Description
	}
	if req.PrimaryColor != nil {
		settings.PrimaryColor = *req.PrimaryColor
	}
	if req.Logo != nil {
		settings.Logo = *req.Logo
	}
	if req.Favicon != nil {
		settings.Favicon = *req.Favicon
	}
	if req.Extra != nil {
		settings.Extra = req.Extra
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return dto.SettingsResponse{}, fmt.Errorf("save settings: %w", err)
	}
	return dto.ToSettingsResponse(*settings), nil
}

func (s *settingsService) GetPolicy(ctx context.Context, kind string) (dto.PolicyResponse, error) {
	if !validPolicyKind(kind) {
		return dto.PolicyResponse{}, ErrPolicyUnknownKind
	}
	doc, err := s.repo.FindPolicyByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PolicyResponse{Kind: kind}, nil
		}
		return dto.PolicyResponse{}, fmt.Errorf("find policy: %w", err)
	}
	return dto.ToPolicyResponse(*doc), nil
}

func (s *settingsService) UpdatePolicy(ctx context.Context, kind, content string) (dto.PolicyResponse, error) {
	if !validPolicyKind(kind) {
		return dto.PolicyResponse{}, ErrPolicyUnknownKind
	}

	doc, err := s.repo.FindPolicyByKind(ctx, kind)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PolicyResponse{}, fmt.Errorf("find policy: %w", err)
		}
		doc = &models.PolicyDocument{Kind: kind}
	}
	doc.Content = content

	if err := s.repo.SavePolicy(ctx, doc); err != nil {
		return dto.PolicyResponse{}, fmt.Errorf("save policy: %w", err)
	}
	return dto.ToPolicyResponse(*doc), nil
}

func validPolicyKind(kind string) bool {
	switch kind {
	case models.PolicyKindPrivacy, models.PolicyKindTerms, models.PolicyKindCookies:
		return true
	default:
		return false
	}
}
