package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"quotebuilder/models"
	"quotebuilder/store"
)

// QuoteInput holds the editable fields of a quote.
type QuoteInput struct {
	ClientID      string                `json:"clienteId"`
	Lines         []models.QuoteLine    `json:"lineas"`
	GlobalOptions []models.GlobalOption `json:"opcionesGlobales"`
	Status        models.QuoteStatus    `json:"estado"`
}

// CustomerSelections are the toggles a customer may change on the live
// version: selectable characteristics per line and global options.
type CustomerSelections struct {
	Lines   map[string]map[string]bool `json:"lineas"`
	Options map[string]bool            `json:"opcionesGlobales"`
}

// QuoteService reads and writes quotes through a Store. Every write runs
// load, mutate, save under one lock, so quote numbers are assigned by a
// single writer and never collide.
type QuoteService struct {
	store store.Store
	mu    sync.Mutex

	// Now is the clock used for numbers and version dates.
	Now func() time.Time
}

// NewQuoteService returns a QuoteService over st.
func NewQuoteService(st store.Store) *QuoteService {
	return &QuoteService{store: st, Now: time.Now}
}

// List returns every live quote.
func (s *QuoteService) List(ctx context.Context) ([]models.Quote, error) {
	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	return quotes, nil
}

// Get returns the live record of a quote, history included.
func (s *QuoteService) Get(ctx context.Context, id string) (models.Quote, error) {
	quotes, err := s.List(ctx)
	if err != nil {
		return models.Quote{}, err
	}
	i := indexQuote(quotes, id)
	if i < 0 {
		return models.Quote{}, notFound("quote", id)
	}
	return quotes[i], nil
}

// GetVersion returns version n of a quote.
func (s *QuoteService) GetVersion(ctx context.Context, id string, n int) (models.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	return VersionOf(q, n)
}

// Create saves a new quote as version 1 with an empty history and assigns
// its number. The client record is copied into the quote so later edits
// to the client leave it untouched.
func (s *QuoteService) Create(ctx context.Context, in QuoteInput) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load quotes: %w", err)
	}
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}

	q := models.Quote{
		Lines:         slices.Clone(in.Lines),
		GlobalOptions: slices.Clone(in.GlobalOptions),
		Status:        in.Status,
		PriorVersions: []models.Quote{},
	}
	if q.Status == "" {
		q.Status = models.StatusDraft
	}
	if err := s.attachClient(ctx, &q, in.ClientID); err != nil {
		return models.Quote{}, err
	}
	if err := prepareContent(&q, nil, products); err != nil {
		return models.Quote{}, err
	}

	now := s.Now()
	numbers := make([]string, 0, len(quotes))
	for _, existing := range quotes {
		numbers = append(numbers, existing.Number)
	}
	q.ID = newID()
	q.Number = NextQuoteNumber(numbers, now)
	q.Version = 1
	q.Date = now

	quotes = append(quotes, q)
	if err := s.store.SaveQuotes(ctx, quotes); err != nil {
		return models.Quote{}, fmt.Errorf("save quotes: %w", err)
	}
	return q, nil
}

// Update applies fn to a copy of the live record and saves the result.
// Identity, number, version and history cannot be changed this way; the
// total is recomputed and the date refreshed. Nothing is saved when fn or
// validation fails.
func (s *QuoteService) Update(ctx context.Context, id string, fn func(*models.Quote) error) (models.Quote, error) {
	return s.modify(ctx, id, fn, true)
}

// modify is Update with line validation optional. Without it only the
// total is recomputed, for writes that touch nothing but derived prices.
func (s *QuoteService) modify(ctx context.Context, id string, fn func(*models.Quote) error, validate bool) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load quotes: %w", err)
	}
	i := indexQuote(quotes, id)
	if i < 0 {
		return models.Quote{}, notFound("quote", id)
	}
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}

	stored := quotes[i]
	working, err := cloneQuote(stored)
	if err != nil {
		return models.Quote{}, err
	}
	if err := fn(&working); err != nil {
		return models.Quote{}, err
	}

	switch {
	case working.ID != stored.ID || working.Number != stored.Number:
		return models.Quote{}, violation("id and number of quote %s are assigned once", stored.ID)
	case working.Version != stored.Version:
		return models.Quote{}, violation("version of quote %s only changes through a new version", stored.ID)
	}
	if err := checkHistoryUnchanged(stored.PriorVersions, working.PriorVersions); err != nil {
		return models.Quote{}, err
	}
	if working.Status == "" {
		working.Status = models.StatusDraft
	}
	if validate {
		if err := prepareContent(&working, stored.Lines, products); err != nil {
			return models.Quote{}, err
		}
	} else {
		RecalculateQuote(&working)
	}
	working.Date = s.Now()

	quotes[i] = working
	if err := s.store.SaveQuotes(ctx, quotes); err != nil {
		return models.Quote{}, fmt.Errorf("save quotes: %w", err)
	}
	return working, nil
}

// Replace overwrites the editable fields of the live record.
func (s *QuoteService) Replace(ctx context.Context, id string, in QuoteInput) (models.Quote, error) {
	return s.Update(ctx, id, func(q *models.Quote) error {
		if in.ClientID != q.ClientID {
			if err := s.attachClient(ctx, q, in.ClientID); err != nil {
				return err
			}
		}
		q.Lines = slices.Clone(in.Lines)
		q.GlobalOptions = slices.Clone(in.GlobalOptions)
		if in.Status != "" {
			q.Status = in.Status
		}
		return nil
	})
}

// SetStatus changes the status label of the live record.
func (s *QuoteService) SetStatus(ctx context.Context, id string, status models.QuoteStatus) (models.Quote, error) {
	if !status.Valid() {
		return models.Quote{}, invalid(fmt.Sprintf("status: unknown status %q", status))
	}
	return s.Update(ctx, id, func(q *models.Quote) error {
		q.Status = status
		return nil
	})
}

// Delete removes a quote with its whole history.
func (s *QuoteService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return fmt.Errorf("load quotes: %w", err)
	}
	i := indexQuote(quotes, id)
	if i < 0 {
		return notFound("quote", id)
	}
	quotes = append(quotes[:i], quotes[i+1:]...)
	if err := s.store.SaveQuotes(ctx, quotes); err != nil {
		return fmt.Errorf("save quotes: %w", err)
	}
	return nil
}

// CreateNewVersion snapshots the live state of a quote into its history
// and starts the next version as an editable draft copy.
func (s *QuoteService) CreateNewVersion(ctx context.Context, id string) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load quotes: %w", err)
	}
	i := indexQuote(quotes, id)
	if i < 0 {
		return models.Quote{}, notFound("quote", id)
	}

	next, err := NewVersion(quotes[i], s.Now())
	if err != nil {
		return models.Quote{}, err
	}
	quotes[i] = next
	if err := s.store.SaveQuotes(ctx, quotes); err != nil {
		return models.Quote{}, fmt.Errorf("save quotes: %w", err)
	}
	return next, nil
}

// AddLine builds a line, applies the initial characteristic values of
// patch, validates it and appends it to the quote.
func (s *QuoteService) AddLine(ctx context.Context, quoteID string, kind models.LineKind, productID string, in LineInput, patch LinePatch) (models.Quote, error) {
	var product *models.ProductDefinition
	if kind == models.LineExisting && productID != "" {
		products, err := s.store.LoadProducts(ctx)
		if err != nil {
			return models.Quote{}, fmt.Errorf("load products: %w", err)
		}
		p, ok := products[productID]
		if !ok {
			return models.Quote{}, notFound("product", productID)
		}
		product = &p
	}

	line, err := CreateLine(kind, product, in)
	if err != nil {
		return models.Quote{}, err
	}
	patch.ProductID = nil
	if len(patch.Permanent) > 0 || len(patch.Selectable) > 0 || patch.UnitPrice != nil {
		if line, err = UpdateLine(product, line, patch); err != nil {
			return models.Quote{}, err
		}
	}
	if err := ValidateLine(product, line); err != nil {
		return models.Quote{}, err
	}

	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		q.Lines = append(q.Lines, line)
		return nil
	})
}

// UpdateQuoteLine applies patch to one line of the live record.
func (s *QuoteService) UpdateQuoteLine(ctx context.Context, quoteID, lineID string, patch LinePatch) (models.Quote, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		i := q.Line(lineID)
		if i < 0 {
			return notFound("line", lineID)
		}
		productID := q.Lines[i].Product.ID
		if patch.ProductID != nil {
			productID = *patch.ProductID
		}
		var product *models.ProductDefinition
		if q.Lines[i].Kind == models.LineExisting {
			p, ok := products[productID]
			if !ok {
				return notFound("product", productID)
			}
			product = &p
		}
		line, err := UpdateLine(product, q.Lines[i], patch)
		if err != nil {
			return err
		}
		q.Lines[i] = line
		return nil
	})
}

// RemoveLine deletes one line of the live record.
func (s *QuoteService) RemoveLine(ctx context.Context, quoteID, lineID string) (models.Quote, error) {
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		i := q.Line(lineID)
		if i < 0 {
			return notFound("line", lineID)
		}
		q.Lines = append(q.Lines[:i], q.Lines[i+1:]...)
		return nil
	})
}

// DuplicateQuoteLine appends a copy of a line under a fresh id.
func (s *QuoteService) DuplicateQuoteLine(ctx context.Context, quoteID, lineID string) (models.Quote, error) {
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		i := q.Line(lineID)
		if i < 0 {
			return notFound("line", lineID)
		}
		dup, err := DuplicateLine(q.Lines[i])
		if err != nil {
			return err
		}
		q.Lines = append(q.Lines, dup)
		return nil
	})
}

// MoveQuoteLine moves a line one position up or down.
func (s *QuoteService) MoveQuoteLine(ctx context.Context, quoteID, lineID, direction string) (models.Quote, error) {
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		i := q.Line(lineID)
		if i < 0 {
			return notFound("line", lineID)
		}
		to := i
		switch strings.ToLower(direction) {
		case "up":
			to = i - 1
		case "down":
			to = i + 1
		default:
			return invalid(fmt.Sprintf("direction: expected up or down, got %q", direction))
		}
		lines, err := MoveLine(q.Lines, i, to)
		if err != nil {
			return err
		}
		q.Lines = lines
		return nil
	})
}

// SetLineCharacteristic changes one characteristic of a catalog line. The
// section comes from the product; enabled only applies to selectable
// characteristics and a nil value leaves the current one.
func (s *QuoteService) SetLineCharacteristic(ctx context.Context, quoteID, lineID, name string, enabled *bool, value any) (models.Quote, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		i := q.Line(lineID)
		if i < 0 {
			return notFound("line", lineID)
		}
		p, ok := products[q.Lines[i].Product.ID]
		if q.Lines[i].Kind != models.LineExisting || !ok {
			return invalid(fmt.Sprintf("line %s has no characteristics", lineID))
		}

		var patch LinePatch
		if _, permanent := p.Permanent[name]; permanent {
			if value == nil {
				return invalid(name + ": a value is required")
			}
			patch.Permanent = map[string]any{name: value}
		} else if _, selectable := p.Selectable[name]; selectable {
			patch.Selectable = map[string]SelectablePatch{name: {Enabled: enabled, Value: value}}
		} else {
			return notFound("characteristic", name)
		}

		line, err := UpdateLine(&p, q.Lines[i], patch)
		if err != nil {
			return err
		}
		q.Lines[i] = line
		return nil
	})
}

// ApplyCustomerSelections applies a customer's toggles to the live record,
// recomputing the affected line prices and the total.
func (s *QuoteService) ApplyCustomerSelections(ctx context.Context, quoteID string, sel CustomerSelections) (models.Quote, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}
	return s.Update(ctx, quoteID, func(q *models.Quote) error {
		for _, lineID := range sortedKeys(sel.Lines) {
			i := q.Line(lineID)
			if i < 0 {
				return notFound("line", lineID)
			}
			line := q.Lines[i]
			p, ok := products[line.Product.ID]
			if line.Kind != models.LineExisting || !ok {
				return invalid(fmt.Sprintf("line %s has no selectable characteristics", lineID))
			}
			toggles := sel.Lines[lineID]
			for _, name := range sortedKeys(toggles) {
				if line, err = SetCharacteristicEnabled(p, line, name, toggles[name]); err != nil {
					return err
				}
			}
			q.Lines[i] = line
		}
		for optID, enabled := range sel.Options {
			found := false
			for j := range q.GlobalOptions {
				if q.GlobalOptions[j].ID == optID {
					q.GlobalOptions[j].Enabled = enabled
					found = true
				}
			}
			if !found {
				return notFound("global option", optID)
			}
		}
		return nil
	})
}

// RefreshPrices re-derives the characteristic prices of every catalog line
// of the live record from the current catalog. Lines priced by hand and
// lines whose product was deleted keep their price; values no longer among
// the options are priced at the characteristic base price.
func (s *QuoteService) RefreshPrices(ctx context.Context, id string) (models.Quote, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return models.Quote{}, fmt.Errorf("load products: %w", err)
	}
	return s.modify(ctx, id, func(q *models.Quote) error {
		for i, line := range q.Lines {
			p, ok := products[line.Product.ID]
			if line.Kind != models.LineExisting || line.PriceOverridden || !ok {
				continue
			}
			refreshed, err := RefreshSelectablePrices(p, line)
			if err != nil {
				return err
			}
			q.Lines[i] = refreshed
		}
		return nil
	}, false)
}

// attachClient resolves clientID and copies the client into q.
func (s *QuoteService) attachClient(ctx context.Context, q *models.Quote, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return invalid("client: a client must be selected")
	}
	clients, err := s.store.LoadClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	for _, c := range clients {
		if c.ID == clientID {
			snap := c
			q.ClientID = c.ID
			q.Client = c.DisplayName()
			q.ClientSnapshot = &snap
			return nil
		}
	}
	return notFound("client", clientID)
}

// prepareContent fills missing ids, normalises quantities, validates new
// and edited lines and every option, and recomputes the total. Lines equal
// to their stored counterpart in stored are not validated again, so a
// catalog edit or a legacy migration never locks a quote.
func prepareContent(q *models.Quote, stored []models.QuoteLine, products map[string]models.ProductDefinition) error {
	if !q.Status.Valid() {
		return invalid(fmt.Sprintf("status: unknown status %q", q.Status))
	}

	if q.Lines == nil {
		q.Lines = []models.QuoteLine{}
	}

	previous := make(map[string]models.QuoteLine, len(stored))
	for _, l := range stored {
		previous[l.ID] = l
	}

	var msgs []string
	seen := map[string]bool{}
	for i := range q.Lines {
		l := &q.Lines[i]
		prev, known := previous[l.ID]
		untouched := known && l.ID != "" && !seen[l.ID] && sameJSON(prev, *l)
		if l.ID == "" || seen[l.ID] {
			l.ID = newID()
		}
		seen[l.ID] = true
		if untouched {
			continue
		}
		l.Quantity = normalizeQuantity(l.Quantity)

		var product *models.ProductDefinition
		if p, ok := products[l.Product.ID]; ok && l.Kind == models.LineExisting {
			product = &p
		}
		if err := ValidateLine(product, *l); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				for _, m := range ve.Messages {
					msgs = append(msgs, fmt.Sprintf("line %d: %s", i+1, m))
				}
				continue
			}
			return err
		}
	}

	for i := range q.GlobalOptions {
		o := &q.GlobalOptions[i]
		if o.ID == "" {
			o.ID = newID()
		}
		if strings.TrimSpace(o.Name) == "" {
			msgs = append(msgs, fmt.Sprintf("option %d: a name is required", i+1))
		}
		if o.Price < 0 {
			msgs = append(msgs, fmt.Sprintf("option %d: price cannot be negative", i+1))
		}
	}
	if len(msgs) > 0 {
		return invalid(msgs...)
	}

	RecalculateQuote(q)
	return nil
}

func indexQuote(quotes []models.Quote, id string) int {
	for i, q := range quotes {
		if q.ID == id {
			return i
		}
	}
	return -1
}
