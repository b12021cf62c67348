// Package models holds the records the quoting engine reads and writes.
// JSON field names follow the existing data files so stored catalogs and
// quotes load without conversion.
package models

// CharacteristicKind is the declared input type of a characteristic.
type CharacteristicKind string

const (
	KindSelect CharacteristicKind = "select"
	KindNumber CharacteristicKind = "number"
	KindText   CharacteristicKind = "text"
)

// Valid reports whether k is one of the known kinds.
func (k CharacteristicKind) Valid() bool {
	switch k {
	case KindSelect, KindNumber, KindText:
		return true
	}
	return false
}

// PriceOption is one choice of a priced select characteristic.
type PriceOption struct {
	Value string  `json:"valor"`
	Price float64 `json:"precio"`
}

// PermanentCharacteristicSpec describes an attribute that is always present
// on a line and never affects its price.
type PermanentCharacteristicSpec struct {
	Label   string             `json:"label"`
	Kind    CharacteristicKind `json:"tipo"`
	Options []string           `json:"opciones,omitempty"`
	Min     *float64           `json:"min,omitempty"`
	Max     *float64           `json:"max,omitempty"`
}

// SelectableCharacteristicSpec describes an optional attribute that can be
// toggled per line and may add to the line price.
type SelectableCharacteristicSpec struct {
	Label            string             `json:"label"`
	Kind             CharacteristicKind `json:"tipo"`
	Options          []PriceOption      `json:"opciones,omitempty"`
	IncludesPrice    bool               `json:"incluyePrecio"`
	BasePrice        float64            `json:"precioBase"`
	EnabledByDefault bool               `json:"activadaPorDefecto"`
	Min              *float64           `json:"min,omitempty"`
	Max              *float64           `json:"max,omitempty"`
}

// Option returns the option whose value equals v.
func (s SelectableCharacteristicSpec) Option(v string) (PriceOption, bool) {
	for _, o := range s.Options {
		if o.Value == v {
			return o, true
		}
	}
	return PriceOption{}, false
}

// ProductDefinition is a catalog product. Quote lines reference it by ID
// and never own it.
type ProductDefinition struct {
	ID         string                                  `json:"id"`
	Name       string                                  `json:"nombre"`
	BasePrice  *float64                                `json:"precioBase,omitempty"`
	Permanent  map[string]PermanentCharacteristicSpec  `json:"caracteristicasPermanentes"`
	Selectable map[string]SelectableCharacteristicSpec `json:"caracteristicasSeleccionables"`
}

// EffectiveBasePrice returns the product base price, or 0 when unset.
func (p ProductDefinition) EffectiveBasePrice() float64 {
	if p.BasePrice == nil {
		return 0
	}
	return *p.BasePrice
}

// CollidingCharacteristics returns the names declared in both sections that
// collide. A well-formed product returns nothing.
func (p ProductDefinition) CollidingCharacteristics() (collisions []string) {
	for name := range p.Permanent {
		if _, ok := p.Selectable[name]; ok {
			collisions = append(collisions, name)
		}
	}
	return collisions
}

// Float returns a pointer to f. Handy for optional numeric fields.
func Float(f float64) *float64 {
	return &f
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
