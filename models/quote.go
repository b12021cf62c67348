package models

import "time"

// LineKind distinguishes catalog-backed lines from free-form ones.
type LineKind string

const (
	LineExisting LineKind = "existente"
	LineCustom   LineKind = "personalizado"

	// LineLegacyNew is the kind written by older versions for free-form
	// lines. It is only read, never written.
	LineLegacyNew LineKind = "nuevo"
)

// CustomProductID is the product id carried by custom lines.
const CustomProductID = "personalizado"

// QuoteStatus is a user-settable label. It does not drive versioning.
type QuoteStatus string

const (
	StatusDraft    QuoteStatus = "borrador"
	StatusSent     QuoteStatus = "enviado"
	StatusAccepted QuoteStatus = "aceptado"
	StatusRejected QuoteStatus = "rechazado"
)

// Valid reports whether s is a known status.
func (s QuoteStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ProductRef identifies the product of a line. For custom lines ID is
// CustomProductID and Name is the user-entered description.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// QuoteLine is one priced line of a quote.
type QuoteLine struct {
	ID         string                         `json:"id"`
	Kind       LineKind                       `json:"tipo"`
	Product    ProductRef                     `json:"producto"`
	Reference  string                         `json:"referencia,omitempty"`
	Permanent  map[string]CharacteristicValue `json:"caracteristicasPermanentes"`
	Selectable map[string]CharacteristicValue `json:"caracteristicasSeleccionables"`
	Quantity   int                            `json:"cantidad"`
	UnitPrice  float64                        `json:"precio"`

	// PriceOverridden is set when the unit price was typed in by hand. The
	// price is left alone until a characteristic changes again.
	PriceOverridden bool `json:"precioManual,omitempty"`

	// Fields written by older versions. Present only on unmigrated lines.
	LegacyCharacteristics map[string]any `json:"caracteristicas,omitempty"`
	LegacyDescription     string         `json:"descripcion,omitempty"`
}

// IsLegacy reports whether the line still has the pre-split shape.
func (l QuoteLine) IsLegacy() bool {
	return l.LegacyCharacteristics != nil || l.Kind == LineLegacyNew
}

// Subtotal returns quantity times unit price.
func (l QuoteLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// GlobalOption is a quote-wide add-on, priced only while enabled.
type GlobalOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Enabled     bool    `json:"activada"`
}

// Quote is the live record of a quote together with its history.
type Quote struct {
	ID             string         `json:"id"`
	Number         string         `json:"numero"`
	Version        int            `json:"version"`
	Date           time.Time      `json:"fecha"`
	ClientID       string         `json:"clienteId,omitempty"`
	Client         string         `json:"cliente,omitempty"`
	ClientSnapshot *Client        `json:"datosCliente,omitempty"`
	Lines          []QuoteLine    `json:"lineas"`
	GlobalOptions  []GlobalOption `json:"opcionesGlobales,omitempty"`
	Total          float64        `json:"total"`
	Status         QuoteStatus    `json:"estado"`

	// PriorVersions holds superseded versions in chronological order. Each
	// entry has its own PriorVersions emptied.
	PriorVersions []Quote `json:"versiones"`
}

// Line returns the index of the line with the given id, or -1.
func (q Quote) Line(id string) int {
	for i, l := range q.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
