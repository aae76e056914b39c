package cache

import (
	"context"
	"strings"
	"time"

	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/luxfolio/dealdesk/internal/cache"
	"github.com/luxfolio/dealdesk/internal/contact/domain"
	obsmetrics "github.com/luxfolio/dealdesk/internal/observability/metrics"
	"go.uber.org/zap"
)

const contactsKey = "contacts"

// Store is the read-through contact cache. Contacts are fetched from
// the accounting platform, classified once, and served from memory for
// the TTL. It is a performance aid only; a stale list just means the
// picker lags the platform by a few minutes.
type Store struct {
	cache   cache.Cache[string, []domain.ExtendedContact]
	client  accounting.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

func NewStore(client accounting.Client, ttl time.Duration, log *zap.Logger, metrics *obsmetrics.Metrics) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{
		cache:   cache.NewTTLCache[string, []domain.ExtendedContact](cache.WithSweepInterval(time.Minute)),
		client:  client,
		ttl:     ttl,
		log:     log.Named("contact.cache"),
		metrics: metrics,
	}
}

// Contacts returns the cached list, refreshing it on a miss.
func (s *Store) Contacts(ctx context.Context) ([]domain.ExtendedContact, error) {
	if contacts, ok := s.cache.Get(contactsKey); ok {
		if s.metrics != nil {
			s.metrics.ContactCacheHits.Inc()
		}
		return contacts, nil
	}
	if s.metrics != nil {
		s.metrics.ContactCacheMisses.Inc()
	}
	return s.refresh(ctx)
}

// Refresh forces a re-fetch regardless of TTL.
func (s *Store) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

// Invalidate drops the cached list.
func (s *Store) Invalidate() {
	s.cache.Invalidate(contactsKey)
}

// Close stops the cache's background sweep.
func (s *Store) Close() {
	s.cache.Close()
}

func (s *Store) refresh(ctx context.Context) ([]domain.ExtendedContact, error) {
	raw, err := s.client.ListContacts(ctx)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.ExtendedContact, 0, len(raw))
	for _, c := range raw {
		contacts = append(contacts, Classify(c))
	}

	s.cache.Set(contactsKey, contacts, s.ttl)
	s.log.Info("contact_cache_refreshed", zap.Int("contacts", len(contacts)))
	return contacts, nil
}

// Classify derives the buyer/supplier classification once, at fill
// time. The platform's raw flags win, with "has a default transaction
// account code" as the fallback heuristic for contacts the platform
// never flagged.
func Classify(c accounting.Contact) domain.ExtendedContact {
	persons := make([]domain.ContactPerson, 0, len(c.ContactPersons))
	for _, p := range c.ContactPersons {
		persons = append(persons, domain.ContactPerson{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			FullName:  strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)),
		})
	}

	return domain.ExtendedContact{
		ContactID:      c.ID,
		Name:           c.Name,
		Email:          c.Email,
		AccountNumber:  c.AccountNumber,
		Reference:      c.Reference,
		IsBuyer:        c.IsCustomerFlag || strings.TrimSpace(c.DefaultSalesAccountCode) != "",
		IsSupplier:     c.IsSupplierFlag || strings.TrimSpace(c.DefaultPurchaseAccountCode) != "",
		ContactPersons: persons,
	}
}
