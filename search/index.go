// Package search maintains a full-text index over the cached property
// snapshot so the UI layer can filter listings by title, description or
// location without another ledger round trip.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"

	"estate-bridge/domain"
)

// Index wraps a Bluge writer over the listing snapshot. Rebuild is
// driven by snapshot replacements; the ledger is append-only, so
// updating documents in place is sufficient.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Rebuild reindexes the given snapshot. The description language is
// detected and stored as a facet so the viewer can tag listings
// (Hebrew and English descriptions are both common here).
func (i *Index) Rebuild(properties []domain.ListedProperty) error {
	batch := bluge.NewBatch()
	for _, property := range properties {
		doc := bluge.NewDocument(string(property.ID)).
			AddField(bluge.NewTextField("title", property.Title).StoreValue()).
			AddField(bluge.NewTextField("description", property.Description)).
			AddField(bluge.NewKeywordField("location", property.Location).StoreValue()).
			AddField(bluge.NewKeywordField("lang", descriptionLang(property.Description)).StoreValue())
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return err
	}
	i.log.Debug("search index rebuilt", "documents", len(properties))
	return nil
}

// Hit is one search result: the property ID plus the stored facets.
type Hit struct {
	ID       domain.PropertyID
	Title    string
	Location string
	Lang     string
}

// Search matches the query against title, description and location.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	boolean := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(query).SetField("title")).
		AddShould(bluge.NewMatchQuery(query).SetField("description")).
		AddShould(bluge.NewMatchQuery(query).SetField("location"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = domain.PropertyID(value)
			case "title":
				hit.Title = string(value)
			case "location":
				hit.Location = string(value)
			case "lang":
				hit.Lang = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func descriptionLang(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	info := whatlanggo.Detect(description)
	return info.Lang.Iso6391()
}
