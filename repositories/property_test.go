package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"estate-bridge/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func price(t *testing.T, s string) domain.Amount {
	t.Helper()
	amount, err := domain.ParseAmount(s)
	require.NoError(t, err)
	return amount
}

func Test_Replace_And_Snapshot(t *testing.T) {
	req := require.New(t)
	repository := NewPropertyRepository(openTestDB(t), slog.Default())

	properties := []domain.ListedProperty{
		{
			ID:       "prop-1",
			Title:    "Garden flat",
			Price:    price(t, "2.5"),
			Location: "Jerusalem",
			Owner:    "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			IsActive: true,
		},
		{
			ID:       "prop-2",
			Title:    "Rooftop duplex",
			Price:    price(t, "3"),
			Location: "Haifa",
			Owner:    "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		},
	}
	req.NoError(repository.Replace(properties))

	snapshot, err := repository.Snapshot()
	req.NoError(err)
	req.Len(snapshot, 2)
	req.Equal(domain.PropertyID("prop-1"), snapshot[0].ID)
	req.True(snapshot[0].IsActive)
	req.Zero(snapshot[0].Price.Cmp(price(t, "2.5")))
	req.False(snapshot[1].IsActive)
}

func Test_Replace_Removes_Stale_Entries(t *testing.T) {
	req := require.New(t)
	repository := NewPropertyRepository(openTestDB(t), slog.Default())

	req.NoError(repository.Replace([]domain.ListedProperty{
		{ID: "prop-1", Title: "First"},
		{ID: "prop-2", Title: "Second"},
	}))
	req.NoError(repository.Replace([]domain.ListedProperty{
		{ID: "prop-2", Title: "Second, sold", IsActive: false},
	}))

	snapshot, err := repository.Snapshot()
	req.NoError(err)
	req.Len(snapshot, 1)
	req.Equal(domain.PropertyID("prop-2"), snapshot[0].ID)
	req.Equal("Second, sold", snapshot[0].Title)
}

func Test_Replace_With_Nil_Clears_Snapshot(t *testing.T) {
	req := require.New(t)
	repository := NewPropertyRepository(openTestDB(t), slog.Default())

	req.NoError(repository.Replace([]domain.ListedProperty{{ID: "prop-1"}}))
	req.NoError(repository.Replace(nil))

	snapshot, err := repository.Snapshot()
	req.NoError(err)
	req.Empty(snapshot)
}
