package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) banddomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, band *banddomain.CommissionBand) error {
	return r.db.WithContext(ctx).Create(band).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*banddomain.CommissionBand, error) {
	var band banddomain.CommissionBand
	err := r.db.WithContext(ctx).First(&band, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &band, nil
}

func (r *repository) List(ctx context.Context, onlyEnabled bool) ([]banddomain.CommissionBand, error) {
	var bands []banddomain.CommissionBand
	stmt := r.db.WithContext(ctx).Model(&banddomain.CommissionBand{})
	if onlyEnabled {
		stmt = stmt.Where("is_enabled = ?", true)
	}
	if err := stmt.Order("min_margin ASC").Find(&bands).Error; err != nil {
		return nil, err
	}
	return bands, nil
}

func (r *repository) Update(ctx context.Context, band *banddomain.CommissionBand) error {
	return r.db.WithContext(ctx).
		Model(&banddomain.CommissionBand{}).
		Where("id = ?", band.ID).
		Updates(map[string]any{
			"name":       band.Name,
			"min_margin": band.MinMargin,
			"max_margin": band.MaxMargin,
			"percent":    band.Percent,
			"is_enabled": band.IsEnabled,
			"updated_at": band.UpdatedAt,
		}).Error
}
