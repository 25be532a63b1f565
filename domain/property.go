package domain

import (
	"time"

	"github.com/samber/lo"
)

type PropertyID string

// ListedProperty is a read-only projection of ledger state. The gateway
// never edits one in place; the whole snapshot is replaced after any
// successful mutation.
type ListedProperty struct {
	ID          PropertyID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       Amount     `json:"price"`
	Location    string     `json:"location"`
	Owner       Address    `json:"owner"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	Documents   []Document `json:"documents,omitempty"`
}

func FindProperty(properties []ListedProperty, id PropertyID) (ListedProperty, bool) {
	return lo.Find(properties, func(p ListedProperty) bool {
		return p.ID == id
	})
}

// Listing is the sanitized, ledger-ready payload of a draft: the exact
// fields handed to the ledger's create-listing capability.
type Listing struct {
	ID          PropertyID
	Title       string
	Description string
	Price       Amount
	Location    string
	Documents   []Document
}

// TxHandle identifies a broadcast transaction. Once a handle exists the
// action is irrevocable from this system's perspective.
type TxHandle struct {
	Hash string `json:"hash"`
}
