package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quotebuilder/models"
	"quotebuilder/store"
)

// Section names the half of a product a characteristic belongs to.
type Section string

const (
	SectionPermanent  Section = "permanent"
	SectionSelectable Section = "selectable"
)

// ProductSummary is the lightweight form of a product used by pickers.
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// ProductInput is the editable content of a product.
type ProductInput struct {
	Name       string                                         `json:"nombre"`
	BasePrice  *float64                                       `json:"precioBase,omitempty"`
	Permanent  map[string]models.PermanentCharacteristicSpec  `json:"caracteristicasPermanentes"`
	Selectable map[string]models.SelectableCharacteristicSpec `json:"caracteristicasSeleccionables"`
}

// CharacteristicSpec is the input of UpsertCharacteristic. Permanent
// characteristics keep only the option values and ignore pricing fields.
type CharacteristicSpec struct {
	Label            string                    `json:"label"`
	Kind             models.CharacteristicKind `json:"tipo"`
	Options          []models.PriceOption      `json:"opciones,omitempty"`
	IncludesPrice    bool                      `json:"incluyePrecio"`
	BasePrice        float64                   `json:"precioBase"`
	EnabledByDefault bool                      `json:"activadaPorDefecto"`
	Min              *float64                  `json:"min,omitempty"`
	Max              *float64                  `json:"max,omitempty"`
}

func (c CharacteristicSpec) permanent() models.PermanentCharacteristicSpec {
	out := models.PermanentCharacteristicSpec{Label: c.Label, Kind: c.Kind, Min: c.Min, Max: c.Max}
	for _, o := range c.Options {
		out.Options = append(out.Options, o.Value)
	}
	return out
}

func (c CharacteristicSpec) selectable() models.SelectableCharacteristicSpec {
	return models.SelectableCharacteristicSpec{
		Label:            c.Label,
		Kind:             c.Kind,
		Options:          c.Options,
		IncludesPrice:    c.IncludesPrice,
		BasePrice:        c.BasePrice,
		EnabledByDefault: c.EnabledByDefault,
		Min:              c.Min,
		Max:              c.Max,
	}
}

// Catalog manages product definitions through a Store. It keeps no copy of
// the products between calls.
type Catalog struct {
	store store.Store
	mu    sync.Mutex
}

// NewCatalog returns a Catalog over st.
func NewCatalog(st store.Store) *Catalog {
	return &Catalog{store: st}
}

// Products returns every product keyed by id.
func (c *Catalog) Products(ctx context.Context) (map[string]models.ProductDefinition, error) {
	products, err := c.store.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product.
func (c *Catalog) GetProduct(ctx context.Context, id string) (models.ProductDefinition, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return models.ProductDefinition{}, err
	}
	p, ok := products[id]
	if !ok {
		return models.ProductDefinition{}, notFound("product", id)
	}
	return p, nil
}

// ListProducts returns id and name of every product, sorted by name.
func (c *Catalog) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductSummary, 0, len(products))
	for id, p := range products {
		name := p.Name
		if name == "" {
			name = id
		}
		out = append(out, ProductSummary{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateProduct adds a product under an id derived from its name.
func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (models.ProductDefinition, error) {
	p := productFromInput("", in)
	if err := ValidateProduct(p); err != nil {
		return models.ProductDefinition{}, err
	}

	var created models.ProductDefinition
	err := c.mutate(ctx, func(products map[string]models.ProductDefinition) error {
		p.ID = uniqueSlug(p.Name, products)
		products[p.ID] = p
		created = p
		return nil
	})
	return created, err
}

// UpdateProduct replaces the content of a product. The id never changes.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.ProductDefinition, error) {
	p := productFromInput(id, in)
	if err := ValidateProduct(p); err != nil {
		return models.ProductDefinition{}, err
	}
	err := c.mutate(ctx, func(products map[string]models.ProductDefinition) error {
		if _, ok := products[id]; !ok {
			return notFound("product", id)
		}
		products[id] = p
		return nil
	})
	if err != nil {
		return models.ProductDefinition{}, err
	}
	return p, nil
}

// DeleteProduct removes a product. Quote lines keep their copy of its id
// and name.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	return c.mutate(ctx, func(products map[string]models.ProductDefinition) error {
		if _, ok := products[id]; !ok {
			return notFound("product", id)
		}
		delete(products, id)
		return nil
	})
}

// UpsertCharacteristic adds or replaces a characteristic in one section
// of a product. A name already used by the other section is rejected.
func (c *Catalog) UpsertCharacteristic(ctx context.Context, productID, name string, spec CharacteristicSpec, section Section) (models.ProductDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ProductDefinition{}, invalid("name: a characteristic name is required")
	}

	var updated models.ProductDefinition
	err := c.mutate(ctx, func(products map[string]models.ProductDefinition) error {
		p, ok := products[productID]
		if !ok {
			return notFound("product", productID)
		}
		if p.Permanent == nil {
			p.Permanent = map[string]models.PermanentCharacteristicSpec{}
		}
		if p.Selectable == nil {
			p.Selectable = map[string]models.SelectableCharacteristicSpec{}
		}

		switch section {
		case SectionPermanent:
			if _, taken := p.Selectable[name]; taken {
				return violation("characteristic %q of product %q is already selectable", name, productID)
			}
			p.Permanent[name] = spec.permanent()
		case SectionSelectable:
			if _, taken := p.Permanent[name]; taken {
				return violation("characteristic %q of product %q is already permanent", name, productID)
			}
			p.Selectable[name] = spec.selectable()
		default:
			return invalid(fmt.Sprintf("section: expected permanent or selectable, got %q", section))
		}

		if err := ValidateProduct(p); err != nil {
			return err
		}
		products[productID] = p
		updated = p
		return nil
	})
	return updated, err
}

// RemoveCharacteristic deletes a characteristic from whichever section
// holds it.
func (c *Catalog) RemoveCharacteristic(ctx context.Context, productID, name string) error {
	return c.mutate(ctx, func(products map[string]models.ProductDefinition) error {
		p, ok := products[productID]
		if !ok {
			return notFound("product", productID)
		}
		_, inPermanent := p.Permanent[name]
		_, inSelectable := p.Selectable[name]
		if !inPermanent && !inSelectable {
			return notFound("characteristic", name)
		}
		delete(p.Permanent, name)
		delete(p.Selectable, name)
		products[productID] = p
		return nil
	})
}

// mutate runs fn over the loaded catalog and saves it when fn succeeds.
func (c *Catalog) mutate(ctx context.Context, fn func(map[string]models.ProductDefinition) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	products, err := c.store.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if products == nil {
		products = map[string]models.ProductDefinition{}
	}
	if err := fn(products); err != nil {
		return err
	}
	if err := c.store.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

func productFromInput(id string, in ProductInput) models.ProductDefinition {
	p := models.ProductDefinition{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		BasePrice:  in.BasePrice,
		Permanent:  in.Permanent,
		Selectable: in.Selectable,
	}
	if p.Permanent == nil {
		p.Permanent = map[string]models.PermanentCharacteristicSpec{}
	}
	if p.Selectable == nil {
		p.Selectable = map[string]models.SelectableCharacteristicSpec{}
	}
	return p
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// uniqueSlug derives a product id from name: lower case, spaces to dashes,
// other characters dropped, with -1, -2... appended on collision.
func uniqueSlug(name string, taken map[string]models.ProductDefinition) string {
	base := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	base = slugStrip.ReplaceAllString(base, "")
	if base == "" {
		base = "producto"
	}
	id := base
	for n := 1; ; n++ {
		if _, exists := taken[id]; !exists {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// ValidateProduct checks a product definition before it is stored.
func ValidateProduct(p models.ProductDefinition) error {
	if names := p.CollidingCharacteristics(); len(names) > 0 {
		sort.Strings(names)
		return violation("characteristics %s of product %q are both permanent and selectable", strings.Join(names, ", "), p.ID)
	}

	errs := validation.Errors{
		"nombre": validation.Validate(p.Name, validation.Required),
	}
	if p.BasePrice != nil {
		errs["precioBase"] = validation.Validate(*p.BasePrice, validation.Min(0.0))
	}
	for name, spec := range p.Permanent {
		errs["caracteristicasPermanentes."+name] = validatePermanentSpec(spec)
	}
	for name, spec := range p.Selectable {
		errs["caracteristicasSeleccionables."+name] = validateSelectableSpec(spec)
	}
	return fromValidation(errs.Filter())
}

var kindRule = validation.In(models.KindSelect, models.KindNumber, models.KindText).Error("must be select, number or text")

func validatePermanentSpec(spec models.PermanentCharacteristicSpec) error {
	return validation.ValidateStruct(&spec,
		validation.Field(&spec.Label, validation.Required),
		validation.Field(&spec.Kind, validation.Required, kindRule),
		validation.Field(&spec.Options, validation.When(spec.Kind == models.KindSelect, validation.Required.Error("a select needs options"))),
		validation.Field(&spec.Max, validation.By(boundsRule(spec.Min))),
	)
}

func validateSelectableSpec(spec models.SelectableCharacteristicSpec) error {
	return validation.ValidateStruct(&spec,
		validation.Field(&spec.Label, validation.Required),
		validation.Field(&spec.Kind, validation.Required, kindRule),
		validation.Field(&spec.Options, validation.By(func(any) error {
			for _, o := range spec.Options {
				if strings.TrimSpace(o.Value) == "" {
					return validation.NewError("validation_option_value", "options need a value")
				}
			}
			return nil
		})),
		validation.Field(&spec.BasePrice, validation.Min(0.0)),
		validation.Field(&spec.Max, validation.By(boundsRule(spec.Min))),
	)
}

func boundsRule(min *float64) validation.RuleFunc {
	return func(value any) error {
		var max *float64
		switch v := value.(type) {
		case *float64:
			max = v
		case float64:
			max = &v
		}
		if min != nil && max != nil && *max < *min {
			return validation.NewError("validation_bounds", "max must not be lower than min")
		}
		return nil
	}
}
