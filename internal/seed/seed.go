package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	"gorm.io/gorm"
)

// EnsureDefaultBands seeds the starter commission-band ladder so a
// fresh install can price a deal without any admin setup. Existing
// bands are left alone.
func EnsureDefaultBands(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id node is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&banddomain.CommissionBand{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		high := 2000.0
		mid := 500.0
		bands := []banddomain.CommissionBand{
			{ID: node.Generate(), Name: "Entry", MinMargin: 0, MaxMargin: &mid, Percent: 20, IsEnabled: true},
			{ID: node.Generate(), Name: "Core", MinMargin: 500, MaxMargin: &high, Percent: 30, IsEnabled: true},
			{ID: node.Generate(), Name: "Premium", MinMargin: 2000, Percent: 35, IsEnabled: true},
		}
		return tx.Create(&bands).Error
	})
}
