package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// SettingsRepository persists the singleton site settings row and
// the policy documents.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*models.SiteSetting, error)
	SaveSettings(ctx context.Context, settings *models.SiteSetting) error

	FindPolicyByKind(ctx context.Context, kind string) (*models.PolicyDocument, error)
	SavePolicy(ctx context.Context, doc *models.PolicyDocument) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings(ctx context.Context) (*models.SiteSetting, error) {
	var settings models.SiteSetting
	err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, settings *models.SiteSetting) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *settingsRepository) FindPolicyByKind(ctx context.Context, kind string) (*models.PolicyDocument, error) {
	var doc models.PolicyDocument
	err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *settingsRepository) SavePolicy(ctx context.Context, doc *models.PolicyDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}
