package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"estate-bridge/domain"
)

// badger_inspect dumps the raw content of the snapshot cache without
// going through the daemon. Unlike the debug server it opens the store
// read-only, so it is safe to point at a live database directory.
func main() {
	dbPath := flag.String("db", "/tmp/estate-bridge/badger", "Path to badger DB")
	prefix := flag.String("prefix", "prop:", "Prefix to scan (prop: or attempt:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append(describe(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(key string, value []byte) []string {
	switch {
	case strings.HasPrefix(key, "prop:"):
		var property domain.ListedProperty
		if err := json.Unmarshal(value, &property); err != nil {
			fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
			return rawRow(key, value)
		}
		status := "sold"
		if property.IsActive {
			status = "active"
		}
		detail := fmt.Sprintf("%s | %s | %s | %s", property.Title, property.Location, property.Price, status)
		return []string{key, "PROPERTY", string(property.ID), detail}

	case strings.HasPrefix(key, "attempt:"):
		var attempt domain.Attempt
		if err := json.Unmarshal(value, &attempt); err != nil {
			fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
			return rawRow(key, value)
		}
		detail := fmt.Sprintf("%s %s at %s", attempt.Flow, attempt.Outcome, attempt.At.Format("15:04:05"))
		if attempt.Detail != "" {
			detail += " | " + attempt.Detail
		}
		displayID := string(attempt.PropertyID)
		if len(displayID) > 8 {
			displayID = displayID[:8]
		}
		return []string{key, "ATTEMPT", displayID, detail}
	}
	return rawRow(key, value)
}

func rawRow(key string, value []byte) []string {
	return []string{key, "RAW", "--------", fmt.Sprintf("Size: %d bytes", len(value))}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed daemon can leave the value log in need of a
		// truncate, which read-only mode refuses to do.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
