//go:generate go run go.uber.org/mock/mockgen -source=property.go -destination=../mocks/mock_property_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"estate-bridge/domain"
)

const propertyPrefix = "prop:"

type IPropertyRepository interface {
	Replace(properties []domain.ListedProperty) error
	Snapshot() ([]domain.ListedProperty, error)
}

// PropertyRepository persists the cached projection of ledger state in
// BadgerDB. Keys are "prop:{id}", so a prefix scan returns the snapshot
// ordered by property ID. Replace swaps the whole prefix in one
// transaction: readers never observe a partially applied snapshot.
type PropertyRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPropertyRepository(db *badger.DB, log *slog.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, log: log}
}

func (r *PropertyRepository) Replace(properties []domain.ListedProperty) error {
	return r.db.Update(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)

		prefix := []byte(propertyPrefix)
		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, property := range properties {
			bytes, err := json.Marshal(property)
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%s", propertyPrefix, property.ID)
			if err := txn.Set([]byte(key), bytes); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PropertyRepository) Snapshot() ([]domain.ListedProperty, error) {
	var raw [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(propertyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	properties := make([]domain.ListedProperty, 0, len(raw))
	for _, bytes := range raw {
		var property domain.ListedProperty
		if err := json.Unmarshal(bytes, &property); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, nil
}
