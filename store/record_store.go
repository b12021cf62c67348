package store

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
)

// Collection names used by RecordStore. collections.Setup creates them.
const (
	ProductsCollection = "catalog_products"
	ClientsCollection  = "catalog_clients"
	QuotesCollection   = "catalog_quotes"
)

// RecordStore keeps each entity as one PocketBase record holding the JSON
// document in its "doc" field. "position" preserves collection order.
// Saving replaces the whole collection inside a single transaction.
type RecordStore struct {
	app core.App
}

// NewRecordStore returns a RecordStore backed by app. The collections must
// already exist.
func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

func (s *RecordStore) LoadProducts(ctx context.Context) (map[string]models.ProductDefinition, error) {
	products := map[string]models.ProductDefinition{}
	err := s.load(ctx, ProductsCollection, func(r *core.Record) error {
		var p models.ProductDefinition
		if err := r.UnmarshalJSONField("doc", &p); err != nil {
			return err
		}
		if p.ID == "" {
			p.ID = r.GetString("key")
		}
		products[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *RecordStore) SaveProducts(ctx context.Context, products map[string]models.ProductDefinition) error {
	docs := make([]keyedDoc, 0, len(products))
	for _, id := range slices.Sorted(maps.Keys(products)) {
		docs = append(docs, keyedDoc{key: id, doc: products[id]})
	}
	return s.replace(ctx, ProductsCollection, docs)
}

func (s *RecordStore) LoadClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.load(ctx, ClientsCollection, func(r *core.Record) error {
		var c models.Client
		if err := r.UnmarshalJSONField("doc", &c); err != nil {
			return err
		}
		clients = append(clients, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *RecordStore) SaveClients(ctx context.Context, clients []models.Client) error {
	docs := make([]keyedDoc, 0, len(clients))
	for _, c := range clients {
		docs = append(docs, keyedDoc{key: c.ID, doc: c})
	}
	return s.replace(ctx, ClientsCollection, docs)
}

func (s *RecordStore) LoadQuotes(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.load(ctx, QuotesCollection, func(r *core.Record) error {
		var q models.Quote
		if err := r.UnmarshalJSONField("doc", &q); err != nil {
			return err
		}
		quotes = append(quotes, q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *RecordStore) SaveQuotes(ctx context.Context, quotes []models.Quote) error {
	docs := make([]keyedDoc, 0, len(quotes))
	for _, q := range quotes {
		docs = append(docs, keyedDoc{key: q.ID, doc: q})
	}
	return s.replace(ctx, QuotesCollection, docs)
}

type keyedDoc struct {
	key string
	doc any
}

func (s *RecordStore) load(ctx context.Context, collection string, decode func(*core.Record) error) error {
	records := []*core.Record{}
	err := s.app.RecordQuery(collection).
		WithContext(ctx).
		OrderBy("position ASC").
		All(&records)
	if err != nil {
		return fmt.Errorf("record store: load %s: %w", collection, err)
	}
	for _, r := range records {
		if err := decode(r); err != nil {
			return fmt.Errorf("record store: decode %s record %s: %w", collection, r.Id, err)
		}
	}
	return nil
}

func (s *RecordStore) replace(ctx context.Context, collection string, docs []keyedDoc) error {
	err := s.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId(collection)
		if err != nil {
			return err
		}

		existing, err := txApp.FindAllRecords(col)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if err := txApp.DeleteWithContext(ctx, r); err != nil {
				return err
			}
		}

		for i, d := range docs {
			record := core.NewRecord(col)
			record.Set("key", d.key)
			record.Set("position", i)
			record.Set("doc", d.doc)
			if err := txApp.SaveWithContext(ctx, record); err != nil {
				return fmt.Errorf("save %q: %w", d.key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record store: save %s: %w", collection, err)
	}
	return nil
}
