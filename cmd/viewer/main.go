package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"estate-bridge/domain"
	"estate-bridge/internal"
	"estate-bridge/repositories"
	"estate-bridge/search"
)

// viewer renders the cached property snapshot without touching the
// bridge. It opens the daemon's database read-only, so it can run while
// the daemon holds the lock.
func main() {
	query := flag.String("search", "", "full-text query over title/description/location")
	limit := flag.Int("limit", 20, "maximum search results")
	flag.Parse()

	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	store := repositories.NewPropertyRepository(db, logger)
	properties, err := store.Snapshot()
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}

	if *query != "" {
		properties = filterByQuery(config, logger, properties, *query, *limit)
	}

	render(properties)
}

func filterByQuery(config internal.Config, logger *slog.Logger, properties []domain.ListedProperty, query string, limit int) []domain.ListedProperty {
	index, err := search.Open(config.BlugeFilepath, logger)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	hits, err := index.Search(context.Background(), query, limit)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	matched := make([]domain.ListedProperty, 0, len(hits))
	for _, hit := range hits {
		if property, found := domain.FindProperty(properties, hit.ID); found {
			matched = append(matched, property)
		}
	}
	return matched
}

func render(properties []domain.ListedProperty) {
	if len(properties) == 0 {
		color.Yellow.Println("No properties in the cached snapshot.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Location", "Price", "Owner", "Status"})
	table.SetAutoWrapText(false)

	for _, p := range properties {
		status := color.Green.Sprint("active")
		if !p.IsActive {
			status = color.Red.Sprint("sold")
		}
		table.Append([]string{
			string(p.ID),
			p.Title,
			p.Location,
			p.Price.String(),
			shortAddress(p.Owner),
			status,
		})
	}
	table.Render()
}

func shortAddress(a domain.Address) string {
	s := a.Checksum()
	if len(s) <= 12 {
		return s
	}
	return s[:8] + "…" + s[len(s)-4:]
}
