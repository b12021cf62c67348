package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quotebuilder/models"
)

// File names used by FileStore. They match the data files of the previous
// system so an existing data directory can be pointed at directly.
const (
	ProductsFile = "productos-caracteristicas.json"
	ClientsFile  = "clientes.json"
	QuotesFile   = "presupuestos.json"
)

type clientsDocument struct {
	Clients []models.Client `json:"clientes"`
}

type quotesDocument struct {
	Quotes []models.Quote `json:"presupuestos"`
}

// FileStore keeps each collection in one JSON file inside Dir. A missing
// file reads as an empty collection. Writes go to a temp file that is
// renamed over the target, so a failed save leaves the old file intact.
type FileStore struct {
	Dir string

	mu sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) LoadProducts(ctx context.Context) (map[string]models.ProductDefinition, error) {
	products := map[string]models.ProductDefinition{}
	if err := s.read(ctx, ProductsFile, &products); err != nil {
		return nil, err
	}
	for id, p := range products {
		if p.ID == "" {
			p.ID = id
			products[id] = p
		}
	}
	return products, nil
}

func (s *FileStore) SaveProducts(ctx context.Context, products map[string]models.ProductDefinition) error {
	if products == nil {
		products = map[string]models.ProductDefinition{}
	}
	return s.write(ctx, ProductsFile, products)
}

func (s *FileStore) LoadClients(ctx context.Context) ([]models.Client, error) {
	var doc clientsDocument
	if err := s.read(ctx, ClientsFile, &doc); err != nil {
		return nil, err
	}
	return doc.Clients, nil
}

func (s *FileStore) SaveClients(ctx context.Context, clients []models.Client) error {
	if clients == nil {
		clients = []models.Client{}
	}
	return s.write(ctx, ClientsFile, clientsDocument{Clients: clients})
}

func (s *FileStore) LoadQuotes(ctx context.Context) ([]models.Quote, error) {
	var doc quotesDocument
	if err := s.read(ctx, QuotesFile, &doc); err != nil {
		return nil, err
	}
	return doc.Quotes, nil
}

func (s *FileStore) SaveQuotes(ctx context.Context, quotes []models.Quote) error {
	if quotes == nil {
		quotes = []models.Quote{}
	}
	return s.write(ctx, QuotesFile, quotesDocument{Quotes: quotes})
}

func (s *FileStore) read(ctx context.Context, name string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("file store: read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("file store: decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) write(ctx context.Context, name string, src any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	return nil
}
