// Package services provides the pricing, line building, versioning and
// catalog logic of the quoting engine.
package services

import (
	"github.com/shopspring/decimal"

	"quotebuilder/models"
)

// PriceOfCharacteristic returns what a selectable characteristic adds to a
// line for the given value. Characteristics that do not include a price
// never contribute. A select value missing from the option list falls back
// to the characteristic base price.
func PriceOfCharacteristic(spec models.SelectableCharacteristicSpec, value models.Value) float64 {
	if !spec.IncludesPrice {
		return 0
	}
	if spec.Kind == models.KindSelect {
		if opt, ok := spec.Option(value.Text()); ok {
			return opt.Price
		}
		return spec.BasePrice
	}
	return spec.BasePrice
}

// LineUnitPrice computes the unit price of a catalog line: the product base
// price plus every enabled selectable characteristic. A stored price is used
// when present, otherwise it is derived from the product spec.
func LineUnitPrice(product models.ProductDefinition, selectable map[string]models.CharacteristicValue) float64 {
	total := decimal.NewFromFloat(product.EffectiveBasePrice())
	for name, cv := range selectable {
		if !cv.IsEnabled() {
			continue
		}
		var contribution float64
		switch {
		case cv.Price != nil:
			contribution = *cv.Price
		default:
			spec, ok := product.Selectable[name]
			if !ok {
				continue
			}
			contribution = PriceOfCharacteristic(spec, cv.Value)
		}
		total = total.Add(decimal.NewFromFloat(contribution))
	}
	return toFloat(total)
}

// QuoteTotal sums quantity times unit price over the lines and adds the
// price of every enabled global option.
func QuoteTotal(lines []models.QuoteLine, options []models.GlobalOption) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	for _, o := range options {
		if o.Enabled {
			total = total.Add(decimal.NewFromFloat(o.Price))
		}
	}
	return toFloat(total)
}

// LineTotal is quantity times unit price.
func LineTotal(l models.QuoteLine) float64 {
	return toFloat(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// OptionsTotal sums the enabled global options.
func OptionsTotal(options []models.GlobalOption) float64 {
	return QuoteTotal(nil, options)
}

// RecalculateQuote stores the derived total on q.
func RecalculateQuote(q *models.Quote) {
	q.Total = QuoteTotal(q.Lines, q.GlobalOptions)
}

// VerifyTotal reports whether the stored total of q matches the one
// derived from its lines and options.
func VerifyTotal(q models.Quote) (derived float64, ok bool) {
	derived = QuoteTotal(q.Lines, q.GlobalOptions)
	return derived, decimal.NewFromFloat(derived).Equal(decimal.NewFromFloat(q.Total))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
