package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/commission"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	bandrepository "github.com/luxfolio/dealdesk/internal/commissionband/repository"
	bandservice "github.com/luxfolio/dealdesk/internal/commissionband/service"
	"github.com/luxfolio/dealdesk/internal/config"
	"github.com/luxfolio/dealdesk/internal/economics"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	errlogservice "github.com/luxfolio/dealdesk/internal/errlog/service"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	partyrepository "github.com/luxfolio/dealdesk/internal/party/repository"
	partyservice "github.com/luxfolio/dealdesk/internal/party/service"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	salerepository "github.com/luxfolio/dealdesk/internal/sale/repository"
	vatservice "github.com/luxfolio/dealdesk/internal/vat/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc        saledomain.Service
	db         *gorm.DB
	bands      banddomain.Service
	parties    partydomain.Service
	errlog     errlogdomain.Service
	accounting *accounting.FakeClient
	clock      *clock.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&saledomain.Sale{},
		&banddomain.CommissionBand{},
		&partydomain.Party{},
		&errlogdomain.ErrorEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()

	themes, err := config.NewThemeConfigHolder()
	require.NoError(t, err)
	resolver := vatservice.NewResolver(themes, log)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	bands := bandservice.New(bandservice.Params{
		Log:   log,
		GenID: node,
		Repo:  bandrepository.NewRepository(db),
		Clock: fakeClock,
	})
	parties := partyservice.New(partyservice.Params{
		Log:   log,
		GenID: node,
		Repo:  partyrepository.NewRepository(db),
		Clock: fakeClock,
	})
	errlogSvc := errlogservice.New(errlogservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
	})

	fakeAccounting := accounting.NewFakeClient()

	svc := NewService(Params{
		Log:        log,
		GenID:      node,
		Repo:       salerepository.NewRepository(db),
		Calculator: economics.NewCalculator(resolver, log),
		Engine:     commission.NewEngine(log),
		Resolver:   resolver,
		Bands:      bands,
		Parties:    parties,
		Errlog:     errlogSvc,
		Accounting: fakeAccounting,
		Clock:      fakeClock,
	})

	return &testEnv{
		svc:        svc,
		db:         db,
		bands:      bands,
		parties:    parties,
		errlog:     errlogSvc,
		accounting: fakeAccounting,
		clock:      fakeClock,
	}
}

func (e *testEnv) addBand(t *testing.T, name string, min float64, max *float64, percent float64) {
	t.Helper()
	_, err := e.bands.Create(context.Background(), banddomain.CreateRequest{
		Name:      name,
		MinMargin: min,
		MaxMargin: max,
		Percent:   percent,
	})
	require.NoError(t, err)
}

func (e *testEnv) addIntroducer(t *testing.T, name string, percent float64) *partydomain.Party {
	t.Helper()
	p, err := e.parties.Create(context.Background(), partydomain.CreateRequest{
		Type:              partydomain.TypeIntroducer,
		Name:              name,
		CommissionPercent: &percent,
	})
	require.NoError(t, err)
	return p
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestCreateStandardVATSale(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)

	sale, err := env.svc.Create(context.Background(), saledomain.CreateRequest{
		ItemDescription:  "Birkin 30",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	assert.Equal(t, saledomain.StatusDraft, sale.Status)
	assert.InDelta(t, 1000.0, sale.SaleAmountExVAT, 0.001)
	assert.InDelta(t, 200.0, sale.VATAmount, 0.001)
	assert.InDelta(t, 20.0, sale.VATRate, 0.001)
	assert.False(t, sale.VATAssumed)
	assert.InDelta(t, 500.0, sale.GrossMargin, 0.001)
	assert.InDelta(t, 500.0, sale.CommissionableMargin, 0.001)

	// Band rate 30% of 500, all to the shopper.
	assert.Equal(t, "band", sale.CommissionRateSource)
	assert.InDelta(t, 150.0, sale.CommissionAmount, 0.001)
	assert.InDelta(t, 0.0, sale.IntroducerSplit, 0.001)
	assert.InDelta(t, 150.0, sale.ShopperSplit, 0.001)
	require.NotNil(t, sale.CommissionBandID)
	assert.False(t, sale.ErrorFlag)
}

func TestCreateWithIntroducerSplit(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	introducer := env.addIntroducer(t, "Jean", 20)

	id := introducer.ID.String()
	sale, err := env.svc.Create(context.Background(), saledomain.CreateRequest{
		ItemDescription:  "Daytona",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
		IntroducerID:     &id,
	})
	require.NoError(t, err)

	assert.InDelta(t, 150.0, sale.CommissionAmount, 0.001)
	assert.InDelta(t, 30.0, sale.IntroducerSplit, 0.001)
	assert.InDelta(t, 120.0, sale.ShopperSplit, 0.001)
	assert.InDelta(t, sale.CommissionAmount, sale.IntroducerSplit+sale.ShopperSplit, 0.001)
}

func TestCreateOverrideBeatsBand(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)

	sale, err := env.svc.Create(context.Background(), saledomain.CreateRequest{
		ItemDescription:           "Kelly 25",
		BrandingTheme:             "margin-scheme",
		SaleAmountIncVAT:          1000,
		BuyPrice:                  600,
		CommissionOverridePercent: fptr(50),
	})
	require.NoError(t, err)

	assert.Equal(t, "override", sale.CommissionRateSource)
	assert.InDelta(t, 200.0, sale.CommissionAmount, 0.001)
	assert.Nil(t, sale.CommissionBandID)
}

func TestCreateUnknownThemeAssumesVATAndFlags(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)

	sale, err := env.svc.Create(context.Background(), saledomain.CreateRequest{
		ItemDescription:  "Speedy 30",
		BrandingTheme:    "no-such-theme",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	assert.True(t, sale.VATAssumed)
	assert.InDelta(t, 20.0, sale.VATRate, 0.001)
	assert.True(t, sale.ErrorFlag)
	assert.NotEmpty(t, sale.ErrorMessage)

	entries, err := env.errlog.List(context.Background(), errlogdomain.ListRequest{Source: "sale.economics"})
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestCreateNoRateAvailable(t *testing.T) {
	env := newTestEnv(t) // no bands seeded

	sale, err := env.svc.Create(context.Background(), saledomain.CreateRequest{
		ItemDescription:  "Neverfull",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	assert.Equal(t, "none", sale.CommissionRateSource)
	assert.Zero(t, sale.CommissionAmount)
	assert.True(t, sale.ErrorFlag)
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Submariner",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
		BuyerContactID:   "contact-1",
	})
	require.NoError(t, err)
	id := sale.ID.String()

	sale, err = env.svc.Transition(ctx, id, saledomain.StatusInvoiced, saledomain.TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, saledomain.StatusInvoiced, sale.Status)

	// The invoice push is detached; give it a moment.
	assert.Eventually(t, func() bool {
		return len(env.accounting.PushedInvoices()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	pushed := env.accounting.PushedInvoices()[0]
	assert.Equal(t, "contact-1", pushed.ContactID)
	assert.InDelta(t, 1200.0, pushed.AmountIncVAT, 0.001)

	bankDate := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	sale, err = env.svc.Transition(ctx, id, saledomain.StatusPaid, saledomain.TransitionOptions{PaymentDate: &bankDate})
	require.NoError(t, err)
	require.NotNil(t, sale.PaymentDate)
	assert.Equal(t, bankDate, sale.PaymentDate.UTC())

	env.clock.Advance(24 * time.Hour)
	sale, err = env.svc.Transition(ctx, id, saledomain.StatusLocked, saledomain.TransitionOptions{})
	require.NoError(t, err)
	assert.True(t, sale.CommissionLocked)
	require.NotNil(t, sale.CommissionLockedAt)
	assert.Equal(t, env.clock.Now(), sale.CommissionLockedAt.UTC())

	sale, err = env.svc.Transition(ctx, id, saledomain.StatusCommissionPaid, saledomain.TransitionOptions{})
	require.NoError(t, err)
	assert.True(t, sale.CommissionPaid)
	require.NotNil(t, sale.CommissionPaidAt)
	assert.True(t, saledomain.IsTerminal(sale.Status))
}

func TestInvalidTransitionFlagsAndRecords(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "GMT Master",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)
	id := sale.ID.String()

	_, err = env.svc.Transition(ctx, id, saledomain.StatusInvoiced, saledomain.TransitionOptions{})
	require.NoError(t, err)
	_, err = env.svc.Transition(ctx, id, saledomain.StatusPaid, saledomain.TransitionOptions{})
	require.NoError(t, err)

	// Backwards is not in the table.
	_, err = env.svc.Transition(ctx, id, saledomain.StatusInvoiced, saledomain.TransitionOptions{})
	require.ErrorIs(t, err, saledomain.ErrInvalidTransition)

	sale, err = env.svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, saledomain.StatusPaid, sale.Status)
	assert.True(t, sale.ErrorFlag)
	assert.Contains(t, sale.ErrorMessage, "paid -> invoiced")

	entries, err := env.errlog.List(ctx, errlogdomain.ListRequest{Source: "sale.lifecycle"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].SaleID)
	assert.Equal(t, sale.ID, *entries[0].SaleID)
}

func TestTransitionSkippingStateRejected(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Patek 5711",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	_, err = env.svc.Transition(ctx, sale.ID.String(), saledomain.StatusPaid, saledomain.TransitionOptions{})
	assert.ErrorIs(t, err, saledomain.ErrInvalidTransition)

	// Self-loops are not in the table either.
	_, err = env.svc.Transition(ctx, sale.ID.String(), saledomain.StatusDraft, saledomain.TransitionOptions{})
	assert.ErrorIs(t, err, saledomain.ErrInvalidTransition)
}

func TestUpdateRecomputesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Chanel Flap",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	sale, err = env.svc.Update(ctx, saledomain.UpdateRequest{
		ID:       sale.ID.String(),
		BuyPrice: fptr(700),
	})
	require.NoError(t, err)

	assert.InDelta(t, 300.0, sale.GrossMargin, 0.001)
	assert.InDelta(t, 90.0, sale.CommissionAmount, 0.001)
}

func TestLockedSaleRejectsFinancialEdits(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Cartier Tank",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)
	id := sale.ID.String()

	for _, next := range []saledomain.DealStatus{saledomain.StatusInvoiced, saledomain.StatusPaid, saledomain.StatusLocked} {
		_, err = env.svc.Transition(ctx, id, next, saledomain.TransitionOptions{})
		require.NoError(t, err)
	}

	_, err = env.svc.Update(ctx, saledomain.UpdateRequest{ID: id, BuyPrice: fptr(400)})
	assert.ErrorIs(t, err, saledomain.ErrCommissionLocked)

	_, err = env.svc.Allocate(ctx, id, 40)
	assert.ErrorIs(t, err, saledomain.ErrCommissionLocked)

	// Non-financial edits still go through.
	updated, err := env.svc.Update(ctx, saledomain.UpdateRequest{ID: id, ItemDescription: sptr("Cartier Tank Louis")})
	require.NoError(t, err)
	assert.Equal(t, "Cartier Tank Louis", updated.ItemDescription)
}

func TestFixVAT(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Vintage Omega",
		BrandingTheme:    "typo-theme",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)
	assert.True(t, sale.VATAssumed)

	sale, err = env.svc.FixVAT(ctx, sale.ID.String(), "margin-scheme")
	require.NoError(t, err)
	assert.False(t, sale.VATAssumed)
	assert.InDelta(t, 0.0, sale.VATRate, 0.001)
	assert.InDelta(t, 1200.0, sale.SaleAmountExVAT, 0.001)

	_, err = env.svc.FixVAT(ctx, sale.ID.String(), "still-not-a-theme")
	assert.ErrorIs(t, err, saledomain.ErrUnknownTheme)
}

func TestAllocateSetsOverride(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Goyard Tote",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)
	assert.Equal(t, "band", sale.CommissionRateSource)

	sale, err = env.svc.Allocate(ctx, sale.ID.String(), 40)
	require.NoError(t, err)
	assert.Equal(t, "override", sale.CommissionRateSource)
	assert.InDelta(t, 200.0, sale.CommissionAmount, 0.001)

	_, err = env.svc.Allocate(ctx, sale.ID.String(), -5)
	assert.ErrorIs(t, err, saledomain.ErrInvalidOverride)
}

func TestLinkExternalInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Van Cleef Alhambra",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
	})
	require.NoError(t, err)

	sale, err = env.svc.LinkExternalInvoice(ctx, sale.ID.String(), "inv-123", "INV-0042")
	require.NoError(t, err)
	assert.Equal(t, "inv-123", sale.ExternalInvoiceID)
	assert.Equal(t, "INV-0042", sale.ExternalInvoiceNumber)

	_, err = env.svc.LinkExternalInvoice(ctx, sale.ID.String(), "", "")
	assert.ErrorIs(t, err, saledomain.ErrMissingInvoiceLink)
}

func TestGetAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.addBand(t, "Flat", 0, nil, 30)
	ctx := context.Background()

	_, err := env.svc.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, saledomain.ErrInvalidID)

	sale, err := env.svc.Create(ctx, saledomain.CreateRequest{
		ItemDescription:  "Dior Saddle",
		BrandingTheme:    "standard-vat",
		SaleAmountIncVAT: 300,
		BuyPrice:         100,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, sale.ID.String()))
	_, err = env.svc.GetByID(ctx, sale.ID.String())
	assert.ErrorIs(t, err, saledomain.ErrSaleNotFound)
}
