// Package templates renders the HTML pages served to customers.
package templates

import (
	"sort"

	"quotebuilder/models"
	"quotebuilder/services"
)

// CustomerQuoteData is what the customer page of a quote shows.
type CustomerQuoteData struct {
	Quote    models.Quote
	Products map[string]models.ProductDefinition
	Saved    bool
}

// Form field prefixes posted by the customer page.
const (
	LineFieldPrefix   = "sel:"
	OptionFieldPrefix = "opt:"
)

// LineField names the checkbox of one selectable characteristic.
func LineField(lineID, name string) string {
	return LineFieldPrefix + lineID + ":" + name
}

// OptionField names the checkbox of one global option.
func OptionField(optionID string) string {
	return OptionFieldPrefix + optionID
}

type permanentRow struct {
	Label string
	Value string
}

type selectableRow struct {
	Field   string
	Label   string
	Value   string
	Price   string // " (+12,00 €)" or empty
	Checked bool
}

// catalogProduct returns the product of a catalog line. Custom lines and
// lines whose product left the catalog have none.
func catalogProduct(l models.QuoteLine, products map[string]models.ProductDefinition) (models.ProductDefinition, bool) {
	if l.Kind != models.LineExisting {
		return models.ProductDefinition{}, false
	}
	p, ok := products[l.Product.ID]
	return p, ok
}

func permanentRows(product models.ProductDefinition, l models.QuoteLine) []permanentRow {
	rows := make([]permanentRow, 0, len(l.Permanent))
	for _, name := range sortedKeys(l.Permanent) {
		label := name
		if spec, ok := product.Permanent[name]; ok {
			label = spec.Label
		}
		rows = append(rows, permanentRow{Label: label, Value: l.Permanent[name].Value.Text()})
	}
	return rows
}

// selectableRows lists every selectable characteristic of the product, so
// customers can switch on the ones the line does not carry yet.
func selectableRows(product models.ProductDefinition, l models.QuoteLine) []selectableRow {
	rows := make([]selectableRow, 0, len(product.Selectable))
	for _, name := range sortedKeys(product.Selectable) {
		cv := l.Selectable[name]
		row := selectableRow{
			Field:   LineField(l.ID, name),
			Label:   product.Selectable[name].Label,
			Value:   cv.Value.Text(),
			Checked: cv.IsEnabled(),
		}
		if cv.IsEnabled() && cv.Price != nil && *cv.Price != 0 {
			row.Price = " (+" + services.FormatEUR(*cv.Price) + ")"
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
