package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/errlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("errlog.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Append(ctx context.Context, severity domain.Severity, source string, messages []string, saleID *snowflake.ID, metadata map[string]any) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	if severity == "" {
		severity = domain.SeverityError
	}

	payload := datatypes.JSONMap{}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	entry := domain.ErrorEntry{
		ID:        s.genID.Generate(),
		Severity:  severity,
		Source:    source,
		Messages:  datatypes.NewJSONSlice(messages),
		SaleID:    saleID,
		Metadata:  payload,
		CreatedAt: s.clock.Now(),
	}

	// Error records are best effort; a failed insert must not take the
	// caller's request down with it.
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("errlog_append_failed",
			zap.String("source", source),
			zap.Strings("messages", messages),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.ErrorEntry, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	stmt := s.db.WithContext(ctx).Model(&domain.ErrorEntry{})
	if req.Severity != "" {
		stmt = stmt.Where("severity = ?", req.Severity)
	}
	if req.Source != "" {
		stmt = stmt.Where("source = ?", req.Source)
	}
	if req.SaleID != nil {
		stmt = stmt.Where("sale_id = ?", *req.SaleID)
	}

	var entries []domain.ErrorEntry
	if err := stmt.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.ErrorEntry{})
	return res.RowsAffected, res.Error
}
