package collections

import (
	"context"
	"fmt"
	"log"

	"quotebuilder/models"
	"quotebuilder/store"
)

// ── Definition structs ───────────────────────────────────────────────────

type optionDef struct {
	value string
	price float64
}

// permanentDef is a select when options is set, a number otherwise.
type permanentDef struct {
	name    string
	label   string
	options []string
	min     float64
	max     float64
}

type selectableDef struct {
	name             string
	label            string
	options          []optionDef
	basePrice        float64
	enabledByDefault bool
}

type productDef struct {
	id         string
	name       string
	basePrice  float64
	permanent  []permanentDef
	selectable []selectableDef
}

// ── Default catalog ──────────────────────────────────────────────────────

var defaultCatalog = []productDef{
	{
		id: "ventana", name: "Ventana", basePrice: 300,
		permanent: []permanentDef{
			{name: "marca", label: "Marca", options: []string{"Cortizo", "Technal", "Schüco", "Reynaers"}},
			{name: "serie", label: "Serie", options: []string{"Serie 60", "Serie 70", "Serie 80"}},
			{name: "ancho", label: "Ancho (mm)", min: 500, max: 3000},
			{name: "alto", label: "Alto (mm)", min: 500, max: 2500},
		},
		selectable: []selectableDef{
			{name: "persiana", label: "Persiana", options: []optionDef{
				{"Sin persiana", 0}, {"Persiana PVC", 150}, {"Persiana Aluminio", 250}, {"Persiana Motorizada", 450},
			}},
			{name: "apertura", label: "Tipo de apertura", enabledByDefault: true, options: []optionDef{
				{"Abatible", 0}, {"Oscilobatiente", 120}, {"Corredera", 80},
			}},
			{name: "cristal", label: "Tipo de cristal", enabledByDefault: true, options: []optionDef{
				{"Simple 4mm", 0}, {"Doble 4/16/4", 85}, {"Doble bajo emisivo", 120}, {"Triple", 180},
			}},
		},
	},
	{
		id: "puerta", name: "Puerta", basePrice: 450,
		permanent: []permanentDef{
			{name: "material", label: "Material", options: []string{"Madera maciza", "MDF lacado", "Aluminio", "PVC"}},
			{name: "ancho", label: "Ancho (mm)", min: 700, max: 1200},
			{name: "alto", label: "Alto (mm)", min: 2000, max: 2400},
		},
		selectable: []selectableDef{
			{name: "manilla", label: "Tipo de manilla", basePrice: 25, enabledByDefault: true, options: []optionDef{
				{"Manilla básica", 25}, {"Manilla roseta", 45}, {"Manilla electrónica", 250},
			}},
			{name: "cerradura", label: "Cerradura de seguridad", options: []optionDef{
				{"Estándar", 0}, {"Seguridad 3 puntos", 120}, {"Seguridad 5 puntos", 220},
			}},
		},
	},
	{
		id: "toldo", name: "Toldo", basePrice: 200,
		permanent: []permanentDef{
			{name: "modelo", label: "Modelo", options: []string{"Extensible", "Cofre", "Semicofre", "Punto recto"}},
			{name: "ancho", label: "Ancho (mm)", min: 2000, max: 6000},
			{name: "salida", label: "Salida (mm)", min: 1500, max: 4000},
		},
		selectable: []selectableDef{
			{name: "motor", label: "Motorización", options: []optionDef{
				{"Manual", 0}, {"Motor con mando", 320}, {"Motor inteligente", 580},
			}},
			{name: "sensor", label: "Sensores", options: []optionDef{
				{"Sin sensores", 0}, {"Sensor viento", 120}, {"Sensor viento + sol", 220},
			}},
		},
	},
	{
		id: "mampara", name: "Mampara", basePrice: 350,
		permanent: []permanentDef{
			{name: "tipo", label: "Tipo de mampara", options: []string{"Frontal", "Angular", "Semicircular"}},
			{name: "ancho", label: "Ancho (mm)", min: 700, max: 2000},
			{name: "alto", label: "Alto (mm)", min: 1850, max: 2100},
		},
		selectable: []selectableDef{
			{name: "cristal", label: "Tipo de cristal", enabledByDefault: true, options: []optionDef{
				{"Transparente 6mm", 0}, {"Transparente 8mm", 50}, {"Serigrafiado", 80}, {"Mate", 90},
			}},
			{name: "tratamiento", label: "Tratamiento antical", options: []optionDef{
				{"Sin tratamiento", 0}, {"Tratamiento antical", 60},
			}},
			{name: "perfileria", label: "Acabado perfilería", enabledByDefault: true, options: []optionDef{
				{"Cromado", 0}, {"Negro mate", 45}, {"Dorado", 85},
			}},
		},
	},
}

func (d productDef) definition() models.ProductDefinition {
	p := models.ProductDefinition{
		ID:         d.id,
		Name:       d.name,
		BasePrice:  models.Float(d.basePrice),
		Permanent:  make(map[string]models.PermanentCharacteristicSpec, len(d.permanent)),
		Selectable: make(map[string]models.SelectableCharacteristicSpec, len(d.selectable)),
	}
	for _, c := range d.permanent {
		spec := models.PermanentCharacteristicSpec{Label: c.label, Kind: models.KindSelect, Options: c.options}
		if len(c.options) == 0 {
			spec = models.PermanentCharacteristicSpec{
				Label: c.label,
				Kind:  models.KindNumber,
				Min:   models.Float(c.min),
				Max:   models.Float(c.max),
			}
		}
		p.Permanent[c.name] = spec
	}
	for _, c := range d.selectable {
		spec := models.SelectableCharacteristicSpec{
			Label:            c.label,
			Kind:             models.KindSelect,
			IncludesPrice:    true,
			BasePrice:        c.basePrice,
			EnabledByDefault: c.enabledByDefault,
		}
		for _, o := range c.options {
			spec.Options = append(spec.Options, models.PriceOption{Value: o.value, Price: o.price})
		}
		p.Selectable[c.name] = spec
	}
	return p
}

// DefaultCatalog returns the products written to an empty catalog.
func DefaultCatalog() map[string]models.ProductDefinition {
	products := make(map[string]models.ProductDefinition, len(defaultCatalog))
	for _, d := range defaultCatalog {
		products[d.id] = d.definition()
	}
	return products
}

// Seed writes the default catalog when the store holds no products.
// Clients and quotes are never seeded.
func Seed(ctx context.Context, st store.Store) error {
	existing, err := st.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: could not load products: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalog is empty – inserting default products …")

	products := DefaultCatalog()
	if err := st.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("seed: could not save products: %w", err)
	}

	log.Printf("seed: inserted %d products\n", len(products))
	return nil
}
