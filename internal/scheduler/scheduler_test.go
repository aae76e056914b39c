package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/luxfolio/dealdesk/internal/clock"
	contactdomain "github.com/luxfolio/dealdesk/internal/contact/domain"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	errlogservice "github.com/luxfolio/dealdesk/internal/errlog/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubContactService struct {
	refreshes int
	err       error
}

func (s *stubContactService) SearchBuyers(context.Context, string, int) ([]contactdomain.ScoredResult, error) {
	return nil, nil
}

func (s *stubContactService) SearchSuppliers(context.Context, string, int) ([]contactdomain.ScoredResult, error) {
	return nil, nil
}

func (s *stubContactService) Refresh(context.Context) error {
	s.refreshes++
	return s.err
}

func newErrlogService(t *testing.T, clk clock.Clock) errlogdomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&errlogdomain.ErrorEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return errlogservice.New(errlogservice.Params{DB: db, Log: zap.NewNop(), GenID: node, Clock: clk})
}

func TestRunOnceExecutesJobs(t *testing.T) {
	contacts := &stubContactService{}
	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		ContactSvc: contacts,
		ErrlogSvc:  newErrlogService(t, clock.NewSystemClock()),
	})
	require.NoError(t, err)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, contacts.refreshes)
}

func TestRunOnceJoinsJobErrors(t *testing.T) {
	contacts := &stubContactService{err: errors.New("platform unreachable")}
	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		ContactSvc: contacts,
		ErrlogSvc:  newErrlogService(t, clock.NewSystemClock()),
	})
	require.NoError(t, err)

	err = sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact_refresh")
}

func TestErrlogRetentionJob(t *testing.T) {
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	errlogSvc := newErrlogService(t, fakeClock)

	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      fakeClock,
		ContactSvc: &stubContactService{},
		ErrlogSvc:  errlogSvc,
		Config:     Config{ErrlogRetention: 24 * time.Hour},
	})
	require.NoError(t, err)

	ctx := context.Background()
	errlogSvc.Append(ctx, errlogdomain.SeverityWarning, "test", []string{"old entry"}, nil, nil)

	// Inside the window: nothing to sweep.
	require.NoError(t, sched.ErrlogRetentionJob(ctx))
	entries, err := errlogSvc.List(ctx, errlogdomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	fakeClock.Advance(48 * time.Hour)
	require.NoError(t, sched.ErrlogRetentionJob(ctx))
	entries, err = errlogSvc.List(ctx, errlogdomain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisabledJobSkipped(t *testing.T) {
	contacts := &stubContactService{}
	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		ContactSvc: contacts,
		ErrlogSvc:  newErrlogService(t, clock.NewSystemClock()),
		Config:     Config{EnabledJobs: []string{"errlog_retention"}},
	})
	require.NoError(t, err)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Zero(t, contacts.refreshes)
}
