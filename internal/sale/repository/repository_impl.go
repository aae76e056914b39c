package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) saledomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sale *saledomain.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*saledomain.Sale, error) {
	var sale saledomain.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repository) List(ctx context.Context, req saledomain.ListRequest) ([]saledomain.Sale, error) {
	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	stmt := r.db.WithContext(ctx).Model(&saledomain.Sale{})
	if req.Status != "" {
		stmt = stmt.Where("status = ?", req.Status)
	}
	if req.ErrorOnly {
		stmt = stmt.Where("error_flag = ?", true)
	}

	var sales []saledomain.Sale
	err := stmt.Order("created_at DESC").Limit(limit).Offset(req.Offset).Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// Save writes the whole row back, snapshot columns included.
func (r *repository) Save(ctx context.Context, sale *saledomain.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// UpdateFields applies a partial update in one statement; transitions
// use it so side-effect fields land together or not at all.
func (r *repository) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&saledomain.Sale{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&saledomain.Sale{}, "id = ?", id).Error
}
