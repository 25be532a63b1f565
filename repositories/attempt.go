package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"estate-bridge/domain"
)

const attemptPrefix = "attempt:"

// AttemptRepository keeps the diagnostic record of every submission
// attempt. The key is "attempt:{timestamp_padded}:{uuid}":
//  1. the 19-digit zero padding makes lexicographical order
//     chronological, and
//  2. the UUID disambiguates two attempts landing in the same
//     nanosecond.
type AttemptRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewAttemptRepository(db *badger.DB, log *slog.Logger, limit *int) *AttemptRepository {
	return &AttemptRepository{db: db, log: log, limit: limit}
}

func (r *AttemptRepository) Record(attempt domain.Attempt) error {
	key := fmt.Sprintf("%s%019d:%s", attemptPrefix, attempt.At.UnixNano(), uuid.NewString())
	bytes, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Recent returns attempts newest first, up to the configured limit.
func (r *AttemptRepository) Recent() ([]domain.Attempt, error) {
	var raw [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(attemptPrefix)
		seekKey := append(append([]byte(nil), prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if r.limit != nil && len(raw) == *r.limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d attempts reached", *r.limit))
				break
			}
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

	attempts := make([]domain.Attempt, 0, len(raw))
	for _, bytes := range raw {
		var attempt domain.Attempt
		if err := json.Unmarshal(bytes, &attempt); err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}
