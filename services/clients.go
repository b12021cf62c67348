package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"quotebuilder/models"
	"quotebuilder/store"
)

// ClientService manages client records. Quotes keep their own copy of the
// client, so edits and deletes here never touch existing quotes.
type ClientService struct {
	store store.Store
	mu    sync.Mutex
}

func NewClientService(st store.Store) *ClientService {
	return &ClientService{store: st}
}

// List returns every client sorted by display name.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.LoadClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return strings.ToLower(clients[i].DisplayName()) < strings.ToLower(clients[j].DisplayName())
	})
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (models.Client, error) {
	clients, err := s.store.LoadClients(ctx)
	if err != nil {
		return models.Client{}, fmt.Errorf("load clients: %w", err)
	}
	if i := indexClient(clients, id); i >= 0 {
		return clients[i], nil
	}
	return models.Client{}, notFound("client", id)
}

// Create stores c under a fresh id.
func (s *ClientService) Create(ctx context.Context, c models.Client) (models.Client, error) {
	c = normalizeClient(c)
	if err := ValidateClient(c); err != nil {
		return models.Client{}, err
	}
	c.ID = newID()
	err := s.mutate(ctx, func(clients []models.Client) ([]models.Client, error) {
		return append(clients, c), nil
	})
	if err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// Update replaces the client with the given id.
func (s *ClientService) Update(ctx context.Context, id string, c models.Client) (models.Client, error) {
	c = normalizeClient(c)
	c.ID = id
	if err := ValidateClient(c); err != nil {
		return models.Client{}, err
	}
	err := s.mutate(ctx, func(clients []models.Client) ([]models.Client, error) {
		i := indexClient(clients, id)
		if i < 0 {
			return nil, notFound("client", id)
		}
		clients[i] = c
		return clients, nil
	})
	if err != nil {
		return models.Client{}, err
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(clients []models.Client) ([]models.Client, error) {
		i := indexClient(clients, id)
		if i < 0 {
			return nil, notFound("client", id)
		}
		return append(clients[:i], clients[i+1:]...), nil
	})
}

func (s *ClientService) mutate(ctx context.Context, fn func([]models.Client) ([]models.Client, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.store.LoadClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	clients, err = fn(clients)
	if err != nil {
		return err
	}
	if err := s.store.SaveClients(ctx, clients); err != nil {
		return fmt.Errorf("save clients: %w", err)
	}
	return nil
}

// ValidateClient requires a name and checks the optional email and type.
func ValidateClient(c models.Client) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("a name is required")),
		validation.Field(&c.Email, is.EmailFormat),
		validation.Field(&c.Type, validation.In(models.ClientPrivate, models.ClientCompany)),
	)
	return fromValidation(err)
}

func normalizeClient(c models.Client) models.Client {
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.TaxID = strings.ToUpper(strings.TrimSpace(c.TaxID))
	c.Email = strings.TrimSpace(c.Email)
	if c.Type == "" {
		c.Type = models.ClientPrivate
	}
	return c
}

func indexClient(clients []models.Client, id string) int {
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}
