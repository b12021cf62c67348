// Package store persists products, clients and quotes. Every operation
// reads or replaces a whole collection; callers load, mutate one entity and
// save the collection back.
package store

import (
	"context"

	"quotebuilder/models"
)

// Store is the persistence contract of the quoting engine.
type Store interface {
	LoadProducts(ctx context.Context) (map[string]models.ProductDefinition, error)
	SaveProducts(ctx context.Context, products map[string]models.ProductDefinition) error

	LoadClients(ctx context.Context) ([]models.Client, error)
	SaveClients(ctx context.Context, clients []models.Client) error

	LoadQuotes(ctx context.Context) ([]models.Quote, error)
	SaveQuotes(ctx context.Context, quotes []models.Quote) error
}
