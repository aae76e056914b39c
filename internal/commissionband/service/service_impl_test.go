package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/commissionband/domain"
	"github.com/luxfolio/dealdesk/internal/commissionband/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.CommissionBand{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(db),
		Clock: clock.NewFakeClock(testNow),
	})
}

func fptr(v float64) *float64 { return &v }

func TestCreateAndResolveForMargin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "Low",
		MinMargin: 0,
		MaxMargin: fptr(500),
		Percent:   20,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Name:      "High",
		MinMargin: 500,
		Percent:   30,
	})
	require.NoError(t, err)

	band, err := svc.ResolveForMargin(ctx, 250)
	require.NoError(t, err)
	require.NotNil(t, band)
	assert.Equal(t, "Low", band.Name)

	// Range boundaries are [min, max).
	band, err = svc.ResolveForMargin(ctx, 500)
	require.NoError(t, err)
	require.NotNil(t, band)
	assert.Equal(t, "High", band.Name)

	// Open-ended upper band.
	band, err = svc.ResolveForMargin(ctx, 1_000_000)
	require.NoError(t, err)
	require.NotNil(t, band)
	assert.Equal(t, "High", band.Name)
}

func TestResolveForMargin_NoBandApplies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "Mid",
		MinMargin: 100,
		MaxMargin: fptr(200),
		Percent:   25,
	})
	require.NoError(t, err)

	band, err := svc.ResolveForMargin(ctx, 50)
	require.NoError(t, err)
	assert.Nil(t, band)
}

func TestResolveForMargin_DisabledBandSkipped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "All",
		MinMargin: 0,
		Percent:   30,
	})
	require.NoError(t, err)

	enabled := false
	_, err = svc.Update(ctx, domain.UpdateRequest{
		ID:        created.ID.String(),
		IsEnabled: &enabled,
	})
	require.NoError(t, err)

	band, err := svc.ResolveForMargin(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, band)
}

func TestCreate_TimestampsComeFromClock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "Clocked",
		MinMargin: 0,
		Percent:   30,
	})
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(testNow))
	assert.True(t, created.UpdatedAt.Equal(testNow))
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "", Percent: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Bad", Percent: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Name: "Bad", Percent: 30, MinMargin: 100, MaxMargin: fptr(50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}
