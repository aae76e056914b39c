package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) partydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, party *partydomain.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*partydomain.Party, error) {
	var party partydomain.Party
	err := r.db.WithContext(ctx).First(&party, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

func (r *repository) List(ctx context.Context, partyType partydomain.PartyType) ([]partydomain.Party, error) {
	var parties []partydomain.Party
	stmt := r.db.WithContext(ctx).Model(&partydomain.Party{})
	if partyType != "" {
		stmt = stmt.Where("type = ?", partyType)
	}
	if err := stmt.Order("name ASC").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *repository) Update(ctx context.Context, party *partydomain.Party) error {
	return r.db.WithContext(ctx).
		Model(&partydomain.Party{}).
		Where("id = ?", party.ID).
		Updates(map[string]any{
			"name":               party.Name,
			"email":              party.Email,
			"commission_percent": party.CommissionPercent,
			"is_active":          party.IsActive,
			"updated_at":         party.UpdatedAt,
		}).Error
}
