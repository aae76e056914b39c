package cache

import (
	"context"
	"testing"
	"time"

	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	t.Run("customer flag marks buyer", func(t *testing.T) {
		c := Classify(accounting.Contact{ID: "c1", Name: "Hermes Paris", IsCustomerFlag: true})
		assert.True(t, c.IsBuyer)
		assert.False(t, c.IsSupplier)
	})

	t.Run("default sales account code marks buyer", func(t *testing.T) {
		c := Classify(accounting.Contact{ID: "c2", Name: "Rolex SA", DefaultSalesAccountCode: "200"})
		assert.True(t, c.IsBuyer)
	})

	t.Run("supplier flag or purchase code marks supplier", func(t *testing.T) {
		byFlag := Classify(accounting.Contact{ID: "c3", IsSupplierFlag: true})
		byCode := Classify(accounting.Contact{ID: "c4", DefaultPurchaseAccountCode: "300"})
		assert.True(t, byFlag.IsSupplier)
		assert.True(t, byCode.IsSupplier)
	})

	t.Run("unflagged contact is neither", func(t *testing.T) {
		c := Classify(accounting.Contact{ID: "c5", Name: "Nobody"})
		assert.False(t, c.IsBuyer)
		assert.False(t, c.IsSupplier)
	})

	t.Run("contact person full name is precomputed", func(t *testing.T) {
		c := Classify(accounting.Contact{
			ID: "c6",
			ContactPersons: []accounting.ContactPerson{
				{FirstName: " Caroline ", LastName: "Looney"},
				{FirstName: "Madonna"},
			},
		})
		require.Len(t, c.ContactPersons, 2)
		assert.Equal(t, "Caroline Looney", c.ContactPersons[0].FullName)
		assert.Equal(t, "Madonna", c.ContactPersons[1].FullName)
	})
}

func TestStoreReadThrough(t *testing.T) {
	client := accounting.NewFakeClient(
		accounting.Contact{ID: "c1", Name: "Hermes Paris", IsCustomerFlag: true},
	)
	store := NewStore(client, time.Minute, zap.NewNop(), nil)
	defer store.Close()

	contacts, err := store.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Hermes Paris", contacts[0].Name)

	// A platform-side change is invisible until the cache turns over.
	client.SetContacts([]accounting.Contact{
		{ID: "c1", Name: "Hermes Paris", IsCustomerFlag: true},
		{ID: "c2", Name: "Chanel Ltd", IsCustomerFlag: true},
	})
	contacts, err = store.Contacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	require.NoError(t, store.Refresh(context.Background()))
	contacts, err = store.Contacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestStoreInvalidate(t *testing.T) {
	client := accounting.NewFakeClient(accounting.Contact{ID: "c1", Name: "Hermes Paris"})
	store := NewStore(client, time.Minute, zap.NewNop(), nil)
	defer store.Close()

	_, err := store.Contacts(context.Background())
	require.NoError(t, err)

	client.SetContacts([]accounting.Contact{
		{ID: "c1", Name: "Hermes Paris"},
		{ID: "c2", Name: "Chanel Ltd"},
	})
	store.Invalidate()

	contacts, err := store.Contacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}
